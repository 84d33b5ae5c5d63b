package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planwise/planwise/internal/models"
)

func newItemsRouter(store *mockItemStore) *mux.Router {
	r := mux.NewRouter()
	NewWorkItemHandler(store).RegisterRoutes(r.PathPrefix("/items").Subrouter())
	return r
}

func TestWorkItemHandler_CreateItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid item",
			body:       `{"title": "Write report", "priority": "urgent", "estimated_minutes": 60}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "defaults to normal priority",
			body:       `{"title": "Review inbox"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"priority": "low"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid priority",
			body:       `{"title": "x", "priority": "critical"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "estimate over cap",
			body:       `{"title": "x", "estimated_minutes": 481}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "title empty after sanitization",
			body:       `{"title": "   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"title": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMockItemStore()
			router := newItemsRouter(store)

			req := httptest.NewRequest("POST", "/items", bytes.NewBufferString(tt.body))
			req = withUser(req, testUser())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestWorkItemHandler_CreateItem_DefaultsPriority(t *testing.T) {
	t.Parallel()

	store := newMockItemStore()
	router := newItemsRouter(store)

	req := httptest.NewRequest("POST", "/items", bytes.NewBufferString(`{"title": "Review inbox"}`))
	req = withUser(req, testUser())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, item := range store.items {
		if item.Priority != models.PriorityNormal {
			t.Errorf("Expected default priority normal, got %s", item.Priority)
		}
		if item.Status != models.WorkItemStatusPending {
			t.Errorf("Expected new items pending, got %s", item.Status)
		}
	}
}

func TestWorkItemHandler_ListItems(t *testing.T) {
	t.Parallel()

	user := testUser()
	other := testUser()
	store := newMockItemStore()
	seed := []*models.WorkItem{
		{ID: uuid.New(), UserID: user.ID, Title: "a", Status: models.WorkItemStatusPending},
		{ID: uuid.New(), UserID: user.ID, Title: "b", Status: models.WorkItemStatusCompleted},
		{ID: uuid.New(), UserID: other.ID, Title: "c", Status: models.WorkItemStatusPending},
	}
	for _, it := range seed {
		store.items[it.ID] = it
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "all items for user", query: "", wantStatus: http.StatusOK, wantCount: 2},
		{name: "filter by status", query: "?status=completed", wantStatus: http.StatusOK, wantCount: 1},
		{name: "invalid status", query: "?status=done", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newItemsRouter(store)

			req := httptest.NewRequest("GET", "/items"+tt.query, nil)
			req = withUser(req, user)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data []*models.WorkItem `json:"data"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(resp.Data) != tt.wantCount {
				t.Errorf("Expected %d items, got %d", tt.wantCount, len(resp.Data))
			}
		})
	}
}

func TestWorkItemHandler_Ownership(t *testing.T) {
	t.Parallel()

	owner := testUser()
	intruder := testUser()
	store := newMockItemStore()
	item := &models.WorkItem{ID: uuid.New(), UserID: owner.ID, Title: "private", Status: models.WorkItemStatusPending}
	store.items[item.ID] = item

	tests := []struct {
		name       string
		user       *models.User
		id         string
		wantStatus int
	}{
		{name: "owner can read", user: owner, id: item.ID.String(), wantStatus: http.StatusOK},
		{name: "non-owner forbidden", user: intruder, id: item.ID.String(), wantStatus: http.StatusForbidden},
		{name: "malformed id", user: owner, id: "not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "unknown id", user: owner, id: uuid.New().String(), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newItemsRouter(store)

			req := httptest.NewRequest("GET", "/items/"+tt.id, nil)
			req = withUser(req, tt.user)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestWorkItemHandler_UpdateItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(*testing.T, *models.WorkItem)
	}{
		{
			name:       "update title and priority",
			body:       `{"title": "Renamed", "priority": "low"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, item *models.WorkItem) {
				if item.Title != "Renamed" {
					t.Errorf("Expected title 'Renamed', got %q", item.Title)
				}
				if item.Priority != models.PriorityLow {
					t.Errorf("Expected priority low, got %s", item.Priority)
				}
			},
		},
		{
			name:       "invalid status rejected",
			body:       `{"status": "archived"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "estimate out of range",
			body:       `{"estimated_minutes": 0}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty title rejected",
			body:       `{"title": "  "}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := testUser()
			store := newMockItemStore()
			item := &models.WorkItem{ID: uuid.New(), UserID: user.ID, Title: "original", Priority: models.PriorityNormal, Status: models.WorkItemStatusPending}
			store.items[item.ID] = item
			router := newItemsRouter(store)

			req := httptest.NewRequest("PATCH", "/items/"+item.ID.String(), bytes.NewBufferString(tt.body))
			req = withUser(req, user)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.check != nil {
				tt.check(t, store.items[item.ID])
			}
		})
	}
}

func TestWorkItemHandler_CompleteItem(t *testing.T) {
	t.Parallel()

	user := testUser()
	store := newMockItemStore()
	item := &models.WorkItem{ID: uuid.New(), UserID: user.ID, Title: "finish me", Status: models.WorkItemStatusPending}
	store.items[item.ID] = item
	router := newItemsRouter(store)

	req := httptest.NewRequest("POST", "/items/"+item.ID.String()+"/complete", nil)
	req = withUser(req, user)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := store.items[item.ID]
	if got.Status != models.WorkItemStatusCompleted {
		t.Errorf("Expected status completed, got %s", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("Expected completed_at to be set")
	} else if time.Since(*got.CompletedAt) > time.Minute {
		t.Errorf("Expected a recent completed_at, got %v", got.CompletedAt)
	}
}

func TestWorkItemHandler_DeleteItem(t *testing.T) {
	t.Parallel()

	user := testUser()
	store := newMockItemStore()
	item := &models.WorkItem{ID: uuid.New(), UserID: user.ID, Title: "gone", Status: models.WorkItemStatusPending}
	store.items[item.ID] = item
	router := newItemsRouter(store)

	req := httptest.NewRequest("DELETE", "/items/"+item.ID.String(), nil)
	req = withUser(req, user)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := store.items[item.ID]; ok {
		t.Error("Expected item to be deleted from the store")
	}
}

func TestWorkItemHandler_Unauthenticated(t *testing.T) {
	t.Parallel()

	router := newItemsRouter(newMockItemStore())

	req := httptest.NewRequest("GET", "/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
