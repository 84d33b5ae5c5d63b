package scheduler

import (
	"time"

	"github.com/planwise/planwise/internal/models"
)

// Conflict reports a pairwise overlap between a candidate block and an
// external busy period.
type Conflict struct {
	Block          *models.ScheduledBlock `json:"block"`
	Period         models.BusyPeriod      `json:"period"`
	OverlapStart   time.Time              `json:"overlap_start"`
	OverlapEnd     time.Time              `json:"overlap_end"`
	OverlapMinutes int                    `json:"overlap_minutes"`
}

// DetectConflicts finds every pairwise time overlap between candidate
// blocks and external busy periods. Two half-open intervals [s1,e1) and
// [s2,e2) conflict iff s1 < e2 && e1 > s2.
//
// The check is advisory: callers decide whether an overlap means a
// reschedule; it never blocks scheduling by itself.
func DetectConflicts(blocks []*models.ScheduledBlock, periods []models.BusyPeriod) []Conflict {
	var conflicts []Conflict
	for _, block := range blocks {
		for _, period := range periods {
			if !period.Overlaps(block.Start, block.End) {
				continue
			}
			start := block.Start
			if period.Start.After(start) {
				start = period.Start
			}
			end := block.End
			if period.End.Before(end) {
				end = period.End
			}
			conflicts = append(conflicts, Conflict{
				Block:          block,
				Period:         period,
				OverlapStart:   start,
				OverlapEnd:     end,
				OverlapMinutes: MinutesBetween(start, end),
			})
		}
	}
	return conflicts
}
