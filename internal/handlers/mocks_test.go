package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise/internal/middleware"
	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/queue"
)

var errNotFound = errors.New("not found")

type mockItemStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.WorkItem
	err   error
}

func newMockItemStore() *mockItemStore {
	return &mockItemStore{items: make(map[uuid.UUID]*models.WorkItem)}
}

func (m *mockItemStore) Create(_ context.Context, item *models.WorkItem) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *mockItemStore) GetByID(_ context.Context, id uuid.UUID) (*models.WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, errNotFound
}

func (m *mockItemStore) GetByUserID(_ context.Context, userID uuid.UUID, status *models.WorkItemStatus) ([]*models.WorkItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.WorkItem
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		if status != nil && item.Status != *status {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *mockItemStore) GetPendingByUserID(_ context.Context, userID uuid.UUID) ([]*models.WorkItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.WorkItem
	for _, item := range m.items {
		if item.UserID == userID && item.Schedulable() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockItemStore) Update(_ context.Context, item *models.WorkItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return errNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockItemStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return errNotFound
	}
	delete(m.items, id)
	return nil
}

type mockBlockStore struct {
	mu      sync.Mutex
	blocks  map[uuid.UUID]*models.ScheduledBlock
	created int
}

func newMockBlockStore() *mockBlockStore {
	return &mockBlockStore{blocks: make(map[uuid.UUID]*models.ScheduledBlock)}
}

func (m *mockBlockStore) CreateBatch(_ context.Context, blocks []*models.ScheduledBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range blocks {
		m.blocks[b.ID] = b
	}
	m.created += len(blocks)
	return nil
}

func (m *mockBlockStore) GetByUserAndRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*models.ScheduledBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ScheduledBlock
	for _, b := range m.blocks {
		if b.UserID == userID && b.Start.Before(end) && b.End.After(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBlockStore) Complete(_ context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blocks[id]
	if !ok || b.UserID != userID || b.CompletedAt != nil {
		return errNotFound
	}
	now := time.Now()
	b.CompletedAt = &now
	return nil
}

func (m *mockBlockStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blocks[id]
	if !ok || b.UserID != userID {
		return errNotFound
	}
	delete(m.blocks, id)
	return nil
}

type mockQueue struct {
	mu       sync.Mutex
	enqueued []*queue.Job
	err      error
}

func (m *mockQueue) Enqueue(_ context.Context, job *queue.Job) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, job)
	return nil
}

func (m *mockQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (m *mockQueue) Close() error { return nil }

func (m *mockQueue) HealthCheck(_ context.Context) error { return nil }

// withUser attaches a user to the request context the way the user context
// middleware would.
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.SetUserInContext(r.Context(), user))
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "user@example.com", Active: true}
}

// decodeJSONBody decodes the recorded response body into out, failing the
// test on malformed JSON.
func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}
