package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/planwise/planwise/internal/middleware"
	"github.com/planwise/planwise/internal/queue"
)

// AutomationHandler enqueues manual sync triggers for the worker
type AutomationHandler struct {
	jobQueue queue.JobQueue
}

// NewAutomationHandler creates a new automation handler
func NewAutomationHandler(jobQueue queue.JobQueue) *AutomationHandler {
	return &AutomationHandler{jobQueue: jobQueue}
}

// RegisterRoutes registers automation routes on the given router.
// The router should already have the /automation prefix.
func (h *AutomationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/trigger", h.Trigger).Methods("POST")
}

// TriggerRequest optionally names the day to sync for
type TriggerRequest struct {
	Date string `json:"date,omitempty"` // "2006-01-02"; empty means next day
}

// TriggerResponse acknowledges an enqueued sync job
type TriggerResponse struct {
	JobID      string `json:"job_id"`
	TargetDate string `json:"target_date,omitempty"`
}

// Trigger enqueues a sync job for the authenticated user. The worker's
// per-user in-flight guard makes repeated triggers safe.
func (h *AutomationHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req TriggerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
			return
		}
	}

	job := queue.NewJob(queue.JobTypeSyncUser, &user.ID)
	resp := TriggerResponse{JobID: job.ID.String()}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date, expected YYYY-MM-DD")
			return
		}
		job.TargetDate = &parsed
		resp.TargetDate = req.Date
	}

	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Failed to enqueue sync job")
		return
	}

	respondJSON(w, http.StatusAccepted, resp)
}
