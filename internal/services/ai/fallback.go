package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/scheduler"
)

// MaxAgendaEntries caps how many items a fallback agenda lists, matching
// the prompt cap of the AI provider.
const MaxAgendaEntries = MaxItemsInPrompt

// FallbackSuggester builds a deterministic agenda without calling any
// external service. It is used when no provider is configured and when a
// provider call fails.
type FallbackSuggester struct{}

// NewFallbackSuggester creates a new fallback suggester
func NewFallbackSuggester() *FallbackSuggester {
	return &FallbackSuggester{}
}

// SuggestAgenda lists the top items in prioritizer order, bucketed by
// priority and due date, and summarizes the counts. Items due on or before
// the target day count as urgent, and items with at least normal priority
// count as important. At most MaxAgendaEntries items are listed; the summary
// still counts everything pending.
func (s *FallbackSuggester) SuggestAgenda(ctx context.Context, items []models.WorkItem, date time.Time) (*models.Agenda, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())

	refs := make([]*models.WorkItem, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	ordered := scheduler.Prioritize(refs)

	entries := make([]models.AgendaEntry, 0, min(len(ordered), MaxAgendaEntries))
	urgentCount := 0
	for _, item := range ordered {
		urgent := item.Priority == models.PriorityUrgent ||
			(item.DueAt != nil && !item.DueAt.After(dayEnd))
		important := models.PriorityWeight(item.Priority) >= models.PriorityWeight(models.PriorityNormal)

		var quadrant models.AgendaQuadrant
		switch {
		case urgent && important:
			quadrant = models.QuadrantUrgentImportant
		case !urgent && important:
			quadrant = models.QuadrantNotUrgentImportant
		case urgent && !important:
			quadrant = models.QuadrantUrgentMinor
		default:
			quadrant = models.QuadrantNotUrgentMinor
		}

		if urgent {
			urgentCount++
		}

		if len(entries) < MaxAgendaEntries {
			entries = append(entries, models.AgendaEntry{
				WorkItemID: item.ID,
				Title:      item.Title,
				Quadrant:   quadrant,
			})
		}
	}

	summary := fmt.Sprintf("%d pending items for %s, %d urgent.",
		len(ordered), date.Format("Monday, January 2"), urgentCount)

	return &models.Agenda{
		ID:        uuid.New(),
		Date:      date,
		Summary:   summary,
		Entries:   entries,
		Source:    models.AgendaSourceFallback,
		CreatedAt: time.Now(),
	}, nil
}

// RegisterFallback registers the fallback suggester with the registry
func RegisterFallback(registry *ProviderRegistry) {
	registry.Register("fallback", func(_ map[string]string) (AgendaSuggester, error) {
		return NewFallbackSuggester(), nil
	})
}
