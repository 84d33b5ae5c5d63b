package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockType distinguishes task blocks from the breaks inserted after them
type BlockType string

const (
	BlockTypeTask  BlockType = "task"
	BlockTypeBreak BlockType = "break"
)

// BusyPeriod is a time interval that is already committed: a persisted
// block or an externally sourced calendar event. Immutable for the
// duration of one scheduling run.
type BusyPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals [Start, End) intersect.
func (b BusyPeriod) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// FreeSlot is a computed, currently unoccupied interval within the
// working-hour window. Derived on every run, never persisted.
type FreeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Available       bool      `json:"available"`
}

// ScheduledBlock is a placed interval on the day plan. WorkItemID is nil
// for break blocks.
type ScheduledBlock struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	WorkItemID      *uuid.UUID `json:"work_item_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	DurationMinutes int        `json:"duration_minutes"`
	Type            BlockType  `json:"type"`
	Priority        Priority   `json:"priority"`
	Color           string     `json:"color,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// BusyPeriod converts a persisted block into the immutable interval form
// consumed by the slot generator.
func (b *ScheduledBlock) BusyPeriod() BusyPeriod {
	return BusyPeriod{Start: b.Start, End: b.End}
}

// PriorityColor maps a priority class to its display color.
func PriorityColor(p Priority) string {
	switch p {
	case PriorityUrgent:
		return "#ef4444"
	case PriorityNormal:
		return "#3b82f6"
	case PriorityLow:
		return "#10b981"
	default:
		return "#3b82f6"
	}
}
