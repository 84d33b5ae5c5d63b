package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planwise/planwise/internal/database"
	"github.com/planwise/planwise/internal/middleware"
	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/validation"
)

// WorkItemHandler handles work item requests
type WorkItemHandler struct {
	items database.WorkItemStore
}

// NewWorkItemHandler creates a new work item handler
func NewWorkItemHandler(items database.WorkItemStore) *WorkItemHandler {
	return &WorkItemHandler{items: items}
}

// RegisterRoutes registers work item routes on the given router.
// The router should already have the /items prefix.
func (h *WorkItemHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListItems).Methods("GET")
	r.HandleFunc("", h.CreateItem).Methods("POST")
	r.HandleFunc("/{id}", h.GetItem).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateItem).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteItem).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteItem).Methods("POST")
}

const (
	// MaxTitleLength is the maximum length for a work item title
	MaxTitleLength = 500
	// MaxEstimatedMinutes caps the estimate a client may supply
	MaxEstimatedMinutes = 480
)

// CreateItemRequest represents a create work item request
type CreateItemRequest struct {
	Title            string     `json:"title" validate:"required,min=1,max=500"`
	Priority         string     `json:"priority" validate:"omitempty,priority"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty" validate:"omitempty,min=1,max=480"`
}

// UpdateItemRequest represents an update work item request
type UpdateItemRequest struct {
	Title            *string    `json:"title,omitempty"`
	Priority         *string    `json:"priority,omitempty"`
	Status           *string    `json:"status,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
}

// ListItems lists work items for the authenticated user
func (h *WorkItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var status *models.WorkItemStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateWorkItemStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sEnum := models.WorkItemStatus(s)
		status = &sEnum
	}

	items, err := h.items.GetByUserID(r.Context(), user.ID, status)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve work items")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// CreateItem creates a new work item
func (h *WorkItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}

	priority := models.PriorityNormal
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
	}

	item := &models.WorkItem{
		ID:               uuid.New(),
		UserID:           user.ID,
		Title:            req.Title,
		Priority:         priority,
		Status:           models.WorkItemStatusPending,
		DueAt:            req.DueAt,
		EstimatedMinutes: req.EstimatedMinutes,
	}

	if err := h.items.Create(r.Context(), item); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create work item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// GetItem retrieves a work item by ID
func (h *WorkItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpdateItem updates an existing work item
func (h *WorkItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxTitleLength))
			return
		}
		item.Title = sanitized
	}
	if req.Priority != nil {
		if err := validation.ValidatePriority(*req.Priority); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		item.Priority = models.Priority(*req.Priority)
	}
	if req.Status != nil {
		if err := validation.ValidateWorkItemStatus(*req.Status); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		item.Status = models.WorkItemStatus(*req.Status)
	}
	if req.DueAt != nil {
		item.DueAt = req.DueAt
	}
	if req.EstimatedMinutes != nil {
		if *req.EstimatedMinutes < 1 || *req.EstimatedMinutes > MaxEstimatedMinutes {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("estimated_minutes must be between 1 and %d", MaxEstimatedMinutes))
			return
		}
		item.EstimatedMinutes = req.EstimatedMinutes
	}

	if err := h.items.Update(r.Context(), item); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update work item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// DeleteItem deletes a work item
func (h *WorkItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	if err := h.items.Delete(r.Context(), item.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete work item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": item.ID.String()})
}

// CompleteItem marks a work item as completed
func (h *WorkItemHandler) CompleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	now := time.Now()
	item.Status = models.WorkItemStatusCompleted
	item.CompletedAt = &now

	if err := h.items.Update(r.Context(), item); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to complete work item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// loadOwnedItem resolves the {id} path variable to a work item owned by the
// authenticated user, writing the appropriate error response on failure.
func (h *WorkItemHandler) loadOwnedItem(w http.ResponseWriter, r *http.Request) (*models.WorkItem, bool) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid work item ID")
		return nil, false
	}

	item, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Work item not found")
		return nil, false
	}
	if item.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Work item does not belong to user")
		return nil, false
	}

	return item, true
}
