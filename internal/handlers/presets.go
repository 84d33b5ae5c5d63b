package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/planwise/planwise/internal/scheduler"
)

// PresetHandler serves the built-in personality presets
type PresetHandler struct{}

// NewPresetHandler creates a new preset handler
func NewPresetHandler() *PresetHandler {
	return &PresetHandler{}
}

// RegisterRoutes registers preset routes on the given router.
// The router should already have the /presets prefix.
func (h *PresetHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListPresets).Methods("GET")
	r.HandleFunc("/{key}", h.GetPreset).Methods("GET")
}

// ListPresets lists all built-in presets
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := scheduler.Presets()
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load presets")
		return
	}
	respondJSON(w, http.StatusOK, presets)
}

// GetPreset retrieves one preset by key
func (h *PresetHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	preset, err := scheduler.PresetByKey(key)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Preset not found")
		return
	}
	respondJSON(w, http.StatusOK, preset)
}
