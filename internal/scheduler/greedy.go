package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/planwise/internal/models"
)

// Schedule places prioritized work items into the ordered free slots using
// greedy first-fit: each item lands in the earliest slot large enough to
// hold its estimated duration plus the optional trailing break. Not
// duration-optimal, but deterministic and O(items x slots), and it
// guarantees the highest-priority work lands earliest in the day.
//
// Infeasibility never produces an error: items that cannot be placed are
// returned in Unscheduled, with a conflict message when an item's bare
// estimate exceeds every remaining slot. Calling twice with identical
// inputs yields an identical result; the input slices are not modified.
func Schedule(userID uuid.UUID, items []*models.WorkItem, slots []models.FreeSlot, opts models.ScheduleOptions) *models.ScheduleResult {
	free := make([]models.FreeSlot, len(slots))
	copy(free, slots)

	result := &models.ScheduleResult{
		Blocks:      []*models.ScheduledBlock{},
		Unscheduled: []*models.WorkItem{},
		Conflicts:   []string{},
		Suggestions: []string{},
	}

	breakMinutes := 0
	if opts.BreakAfterTasks && opts.BreakMinutes > 0 {
		breakMinutes = opts.BreakMinutes
	}

	scheduled := 0
	for _, item := range items {
		if scheduled >= opts.MaxTasksPerDay {
			result.Unscheduled = append(result.Unscheduled, item)
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("Daily limit of %d tasks reached: consider deferring %q to a following day", opts.MaxTasksPerDay, item.Title))
			continue
		}

		estimate := EstimatedMinutes(item)
		required := estimate + breakMinutes

		slotIdx := -1
		for i, slot := range free {
			if slot.DurationMinutes >= required {
				slotIdx = i
				break
			}
		}

		if slotIdx == -1 {
			result.Unscheduled = append(result.Unscheduled, item)
			if estimate > largestSlot(free) {
				result.Conflicts = append(result.Conflicts,
					fmt.Sprintf("%q needs %d minutes but no remaining slot is large enough", item.Title, estimate))
			}
			continue
		}

		slot := free[slotIdx]
		taskEnd := slot.Start.Add(time.Duration(estimate) * time.Minute)
		itemID := item.ID
		result.Blocks = append(result.Blocks, &models.ScheduledBlock{
			ID:              uuid.New(),
			UserID:          userID,
			WorkItemID:      &itemID,
			Title:           item.Title,
			Start:           slot.Start,
			End:             taskEnd,
			DurationMinutes: estimate,
			Type:            models.BlockTypeTask,
			Priority:        item.Priority,
			Color:           models.PriorityColor(item.Priority),
			CreatedAt:       time.Now(),
		})
		scheduled++

		if breakMinutes > 0 {
			result.Blocks = append(result.Blocks, &models.ScheduledBlock{
				ID:              uuid.New(),
				UserID:          userID,
				Title:           "Break",
				Start:           taskEnd,
				End:             taskEnd.Add(time.Duration(breakMinutes) * time.Minute),
				DurationMinutes: breakMinutes,
				Type:            models.BlockTypeBreak,
				Priority:        models.PriorityNormal,
				CreatedAt:       time.Now(),
			})
		}

		// The break is already part of required, so the slot shrinks once.
		if slot.DurationMinutes == required {
			free = append(free[:slotIdx], free[slotIdx+1:]...)
		} else {
			newStart := slot.Start.Add(time.Duration(required) * time.Minute)
			free[slotIdx] = models.FreeSlot{
				Start:           newStart,
				End:             slot.End,
				DurationMinutes: MinutesBetween(newStart, slot.End),
				Available:       true,
			}
		}
	}

	return result
}

func largestSlot(slots []models.FreeSlot) int {
	largest := 0
	for _, s := range slots {
		if s.DurationMinutes > largest {
			largest = s.DurationMinutes
		}
	}
	return largest
}
