package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents how urgent a work item is
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// WorkItemStatus represents the status of a work item
type WorkItemStatus string

const (
	WorkItemStatusPending    WorkItemStatus = "pending"
	WorkItemStatusInProgress WorkItemStatus = "in_progress"
	WorkItemStatusCompleted  WorkItemStatus = "completed"
	WorkItemStatusCancelled  WorkItemStatus = "cancelled"
)

// WorkItem represents a unit of pending work. The scheduler treats work
// items as read-only input; they are created and updated elsewhere.
type WorkItem struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	Title            string         `json:"title"`
	Priority         Priority       `json:"priority"`
	Status           WorkItemStatus `json:"status"`
	DueAt            *time.Time     `json:"due_at,omitempty"`
	EstimatedMinutes *int           `json:"estimated_minutes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// Schedulable reports whether the item is still eligible for placement.
// Completed and cancelled items never enter a scheduling run.
func (w *WorkItem) Schedulable() bool {
	return w.Status != WorkItemStatusCompleted && w.Status != WorkItemStatusCancelled
}

// PriorityWeight returns the ordering weight for a priority class.
// Unrecognized values rank lowest.
func PriorityWeight(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	default:
		return 1
	}
}
