package scheduler

import (
	"sort"
	"time"

	"github.com/planwise/planwise/internal/models"
)

// FreeSlots computes the ordered free intervals between windowStart and
// windowEnd around the given busy periods. Periods that overlap each other
// or arrive out of order are tolerated: the cursor only ever advances, so
// overlaps collapse and periods entirely outside the window cannot pull it
// backwards. Fragments shorter than minMinutes are dropped.
//
// Pure function of its inputs; the busy slice is not modified.
func FreeSlots(windowStart, windowEnd time.Time, busy []models.BusyPeriod, minMinutes int) []models.FreeSlot {
	periods := make([]models.BusyPeriod, len(busy))
	copy(periods, busy)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})

	var slots []models.FreeSlot
	cursor := windowStart

	for _, p := range periods {
		if p.Start.After(cursor) {
			end := p.Start
			if end.After(windowEnd) {
				end = windowEnd
			}
			if dur := MinutesBetween(cursor, end); dur >= minMinutes && dur > 0 {
				slots = append(slots, models.FreeSlot{
					Start:           cursor,
					End:             end,
					DurationMinutes: dur,
					Available:       true,
				})
			}
		}
		if p.End.After(cursor) {
			cursor = p.End
		}
		if !cursor.Before(windowEnd) {
			return slots
		}
	}

	if dur := MinutesBetween(cursor, windowEnd); dur >= minMinutes && dur > 0 {
		slots = append(slots, models.FreeSlot{
			Start:           cursor,
			End:             windowEnd,
			DurationMinutes: dur,
			Available:       true,
		})
	}

	return slots
}

// FreeSlotsForDay converts the working-hour window for a date and computes
// its free slots.
func FreeSlotsForDay(date time.Time, opts models.ScheduleOptions, busy []models.BusyPeriod) ([]models.FreeSlot, error) {
	windowStart, err := AtWallClock(date, opts.WorkdayStart)
	if err != nil {
		return nil, err
	}
	windowEnd, err := AtWallClock(date, opts.WorkdayEnd)
	if err != nil {
		return nil, err
	}
	return FreeSlots(windowStart, windowEnd, busy, opts.MinimumBlockMinutes), nil
}
