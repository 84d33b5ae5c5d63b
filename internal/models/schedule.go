package models

// ScheduleOptions configures one scheduling run.
//
// Durations must be non-negative and MinimumBlockMinutes must not exceed
// any slot the caller wants considered usable; the engine does not
// re-validate these preconditions. The HTTP layer validates options once
// at the boundary.
type ScheduleOptions struct {
	WorkdayStart        string `json:"workday_start" validate:"required,wall_clock"`
	WorkdayEnd          string `json:"workday_end" validate:"required,wall_clock"`
	BreakMinutes        int    `json:"break_minutes" validate:"min=0,max=120"`
	MinimumBlockMinutes int    `json:"minimum_block_minutes" validate:"min=0,max=480"`
	BreakAfterTasks     bool   `json:"break_after_tasks"`
	MaxTasksPerDay      int    `json:"max_tasks_per_day" validate:"min=1,max=50"`
}

// DefaultScheduleOptions returns the documented defaults: working hours
// 09:00-17:00, 15-minute breaks, 30-minute minimum slot, breaks enabled,
// at most 8 items per day.
func DefaultScheduleOptions() ScheduleOptions {
	return ScheduleOptions{
		WorkdayStart:        "09:00",
		WorkdayEnd:          "17:00",
		BreakMinutes:        15,
		MinimumBlockMinutes: 30,
		BreakAfterTasks:     true,
		MaxTasksPerDay:      8,
	}
}

// ScheduleResult is the output bundle of one scheduling run. Infeasibility
// is always surfaced here as data, never as an error.
type ScheduleResult struct {
	Blocks      []*ScheduledBlock `json:"blocks"`
	Unscheduled []*WorkItem       `json:"unscheduled"`
	Conflicts   []string          `json:"conflicts"`
	Suggestions []string          `json:"suggestions"`
}
