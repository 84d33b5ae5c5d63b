package models

import (
	"time"

	"github.com/google/uuid"
)

// AgendaSource records how an agenda summary was produced
type AgendaSource string

const (
	AgendaSourceAI       AgendaSource = "ai"
	AgendaSourceFallback AgendaSource = "fallback"
)

// AgendaQuadrant is one bucket of the urgency/importance split
type AgendaQuadrant string

const (
	QuadrantUrgentImportant    AgendaQuadrant = "urgent_important"
	QuadrantNotUrgentImportant AgendaQuadrant = "not_urgent_important"
	QuadrantUrgentMinor        AgendaQuadrant = "urgent_minor"
	QuadrantNotUrgentMinor     AgendaQuadrant = "not_urgent_minor"
)

// AgendaEntry is one work item referenced by an agenda, bucketed into a
// quadrant.
type AgendaEntry struct {
	WorkItemID uuid.UUID      `json:"work_item_id"`
	Title      string         `json:"title"`
	Quadrant   AgendaQuadrant `json:"quadrant"`
}

// Agenda is the persisted daily agenda summary produced by the automation
// loop when no agenda exists yet for the next day.
type Agenda struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Date      time.Time     `json:"date"`
	Summary   string        `json:"summary"`
	Entries   []AgendaEntry `json:"entries"`
	Source    AgendaSource  `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
}
