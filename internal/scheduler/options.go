package scheduler

import (
	"github.com/planwise/planwise/internal/models"
)

// Default estimated durations, in minutes, used when a work item carries no
// estimate. These are tuning constants carried over from operational
// experience; override them per call site rather than changing them here.
const (
	DefaultUrgentMinutes = 90
	MaxUrgentMinutes     = 120
	DefaultNormalMinutes = 60
	DefaultLowMinutes    = 30
)

// EstimatedMinutes returns the item's estimate, falling back to a
// priority-dependent default. Urgent estimates are capped so a single
// urgent item cannot swallow the whole morning.
func EstimatedMinutes(item *models.WorkItem) int {
	if item.EstimatedMinutes != nil && *item.EstimatedMinutes > 0 {
		return *item.EstimatedMinutes
	}

	switch item.Priority {
	case models.PriorityUrgent:
		if DefaultUrgentMinutes > MaxUrgentMinutes {
			return MaxUrgentMinutes
		}
		return DefaultUrgentMinutes
	case models.PriorityLow:
		return DefaultLowMinutes
	default:
		return DefaultNormalMinutes
	}
}
