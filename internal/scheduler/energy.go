package scheduler

import (
	"time"

	"github.com/planwise/planwise/internal/models"
)

// FlowState classifies the current moment for a preset
type FlowState string

const (
	FlowStatePeak       FlowState = "peak"
	FlowStateProductive FlowState = "productive"
	FlowStateLowEnergy  FlowState = "low_energy"
)

// Task categories suggested by the recommender
const (
	CategoryDeepFocus      = "deep_focus"
	CategoryCollaborative  = "collaborative"
	CategoryAdministrative = "administrative"
)

// Energy thresholds for flow classification
const (
	peakEnergyThreshold       = 0.8
	productiveEnergyThreshold = 0.6
	neutralEnergy             = 0.5
)

// EnergyRecommendation is advisory metadata for the UI; it never schedules
// anything.
type EnergyRecommendation struct {
	Energy         float64   `json:"energy"`
	State          FlowState `json:"state"`
	InPeakWindow   bool      `json:"in_peak_window"`
	InQuietHours   bool      `json:"in_quiet_hours"`
	Categories     []string  `json:"categories"`
	Recommendation string    `json:"recommendation"`
}

// RecommendEnergy maps the current time of day plus a behavioral preset to
// an energy estimate and suggested task categories. Pure function of its
// inputs. Hours outside the morning/afternoon/evening buckets read a
// neutral energy below both classification thresholds.
func RecommendEnergy(preset *models.PersonalityPreset, now time.Time) (*EnergyRecommendation, error) {
	energy := neutralEnergy
	switch hour := now.Hour(); {
	case hour >= 6 && hour < 12:
		energy = preset.Energy.Morning
	case hour >= 12 && hour < 18:
		energy = preset.Energy.Afternoon
	case hour >= 18 && hour < 22:
		energy = preset.Energy.Evening
	}

	inPeak := false
	if preset.PeakStart != "" && preset.PeakEnd != "" {
		var err error
		inPeak, err = InClockRange(now, preset.PeakStart, preset.PeakEnd)
		if err != nil {
			return nil, err
		}
	}

	inQuiet := false
	if preset.QuietStart != "" && preset.QuietEnd != "" {
		var err error
		inQuiet, err = InClockRange(now, preset.QuietStart, preset.QuietEnd)
		if err != nil {
			return nil, err
		}
	}

	rec := &EnergyRecommendation{
		Energy:       energy,
		InPeakWindow: inPeak,
		InQuietHours: inQuiet,
	}

	switch {
	case inPeak && energy > peakEnergyThreshold:
		rec.State = FlowStatePeak
		rec.Categories = []string{CategoryDeepFocus}
		rec.Recommendation = "Peak focus window: protect this time for your hardest deep work"
	case energy > productiveEnergyThreshold:
		rec.State = FlowStateProductive
		rec.Categories = []string{CategoryDeepFocus, CategoryCollaborative}
		rec.Recommendation = "Good energy: a solid time for focused or collaborative work"
	default:
		rec.State = FlowStateLowEnergy
		rec.Categories = []string{CategoryAdministrative}
		rec.Recommendation = "Low energy: clear administrative and routine tasks"
	}

	return rec, nil
}
