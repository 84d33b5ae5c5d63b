package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/planwise/planwise/internal/database"
	"github.com/planwise/planwise/internal/middleware"
	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/scheduler"
	"github.com/planwise/planwise/internal/validation"
)

// ScheduleHandler handles scheduling runs and related queries
type ScheduleHandler struct {
	items  database.WorkItemStore
	blocks database.BlockStore
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(items database.WorkItemStore, blocks database.BlockStore) *ScheduleHandler {
	return &ScheduleHandler{items: items, blocks: blocks}
}

// RegisterRoutes registers schedule routes on the given router.
// The router should already have the /schedule prefix.
func (h *ScheduleHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/preview", h.Preview).Methods("POST")
	r.HandleFunc("/auto", h.Auto).Methods("POST")
	r.HandleFunc("/conflicts", h.Conflicts).Methods("POST")
	r.HandleFunc("/energy", h.Energy).Methods("GET")
}

// ScheduleRequest configures one scheduling run over the caller's pending
// work items. Date defaults to today; options default to the documented
// defaults. BusyPeriods are merged with the user's persisted blocks.
type ScheduleRequest struct {
	Date        string                  `json:"date,omitempty"` // "2006-01-02"
	Options     *models.ScheduleOptions `json:"options,omitempty"`
	BusyPeriods []models.BusyPeriod     `json:"busy_periods,omitempty"`
	PresetKey   string                  `json:"preset_key,omitempty"`
}

// ConflictsRequest carries candidate blocks to test against busy periods
type ConflictsRequest struct {
	Blocks      []*models.ScheduledBlock `json:"blocks" validate:"required"`
	BusyPeriods []models.BusyPeriod      `json:"busy_periods"`
}

// Preview runs the scheduling engine without persisting anything
func (h *ScheduleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.runSchedule(w, r, false)
}

// Auto runs the scheduling engine and persists the resulting blocks
func (h *ScheduleHandler) Auto(w http.ResponseWriter, r *http.Request) {
	h.runSchedule(w, r, true)
}

func (h *ScheduleHandler) runSchedule(w http.ResponseWriter, r *http.Request, persist bool) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ScheduleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
			return
		}
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	opts, err := resolveOptions(&req)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	pending, err := h.items.GetPendingByUserID(ctx, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve work items")
		return
	}

	existing, err := h.blocks.GetByUserAndRange(ctx, user.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve scheduled blocks")
		return
	}

	busy := make([]models.BusyPeriod, 0, len(existing)+len(req.BusyPeriods))
	for _, b := range existing {
		busy = append(busy, b.BusyPeriod())
	}
	busy = append(busy, req.BusyPeriods...)

	slots, err := scheduler.FreeSlotsForDay(date, opts, busy)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	result := scheduler.Schedule(user.ID, scheduler.Prioritize(pending), slots, opts)

	if persist && len(result.Blocks) > 0 {
		if err := h.blocks.CreateBatch(ctx, result.Blocks); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to persist scheduled blocks")
			return
		}
	}

	respondJSON(w, http.StatusOK, result)
}

// resolveOptions merges the request's preset and explicit options, validating
// the outcome once at the boundary.
func resolveOptions(req *ScheduleRequest) (models.ScheduleOptions, error) {
	opts := models.DefaultScheduleOptions()
	if req.PresetKey != "" {
		preset, err := scheduler.PresetByKey(req.PresetKey)
		if err != nil {
			return opts, fmt.Errorf("unknown preset: %s", req.PresetKey)
		}
		opts = preset.ScheduleOptions()
	}
	if req.Options != nil {
		opts = *req.Options
	}
	if err := validation.ValidateScheduleOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// Conflicts reports overlaps between candidate blocks and busy periods
func (h *ScheduleHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ConflictsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if len(req.Blocks) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "blocks is required")
		return
	}

	conflicts := scheduler.DetectConflicts(req.Blocks, req.BusyPeriods)
	respondJSON(w, http.StatusOK, map[string]any{
		"conflicts": conflicts,
		"count":     len(conflicts),
	})
}

// Energy returns a flow-state recommendation for the current instant
func (h *ScheduleHandler) Energy(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	key := r.URL.Query().Get("preset")
	if key == "" {
		key = user.PresetKey
	}
	if key == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "preset query parameter is required for users without a preset")
		return
	}

	preset, err := scheduler.PresetByKey(key)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("unknown preset: %s", key))
		return
	}

	rec, err := scheduler.RecommendEnergy(preset, time.Now())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to compute recommendation")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
