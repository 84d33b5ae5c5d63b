package scheduler

import (
	"sort"

	"github.com/planwise/planwise/internal/models"
)

// Prioritize orders pending work items for placement: priority class weight
// first, then deadline proximity (an item with a due instant outranks one
// without), then creation time as the stable final tie-break. Completed and
// cancelled items are excluded. The input slice is not modified.
func Prioritize(items []*models.WorkItem) []*models.WorkItem {
	pending := make([]*models.WorkItem, 0, len(items))
	for _, item := range items {
		if item.Schedulable() {
			pending = append(pending, item)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]

		wa, wb := models.PriorityWeight(a.Priority), models.PriorityWeight(b.Priority)
		if wa != wb {
			return wa > wb
		}

		switch {
		case a.DueAt != nil && b.DueAt != nil:
			if !a.DueAt.Equal(*b.DueAt) {
				return a.DueAt.Before(*b.DueAt)
			}
		case a.DueAt != nil:
			return true
		case b.DueAt != nil:
			return false
		}

		return a.CreatedAt.Before(b.CreatedAt)
	})

	return pending
}
