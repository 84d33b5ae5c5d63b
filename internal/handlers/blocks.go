package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/planwise/planwise/internal/database"
	"github.com/planwise/planwise/internal/middleware"
)

// BlockHandler handles persisted scheduled block requests
type BlockHandler struct {
	blocks database.BlockStore
}

// NewBlockHandler creates a new block handler
func NewBlockHandler(blocks database.BlockStore) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

// RegisterRoutes registers block routes on the given router.
// The router should already have the /blocks prefix.
func (h *BlockHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListBlocks).Methods("GET")
	r.HandleFunc("/{id}", h.DeleteBlock).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteBlock).Methods("POST")
}

// ListBlocks lists the user's blocks for one day (today by default)
func (h *BlockHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	date := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	blocks, err := h.blocks.GetByUserAndRange(r.Context(), user.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve blocks")
		return
	}

	respondJSON(w, http.StatusOK, blocks)
}

// DeleteBlock deletes one of the user's blocks
func (h *BlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid block ID")
		return
	}

	if err := h.blocks.Delete(r.Context(), id, user.ID); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Block not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

// CompleteBlock marks one of the user's blocks as completed
func (h *BlockHandler) CompleteBlock(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid block ID")
		return
	}

	if err := h.blocks.Complete(r.Context(), id, user.ID); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Block not found or already completed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
