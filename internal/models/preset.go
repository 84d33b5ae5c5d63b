package models

// EnergyCurve holds a preset's three-bucket energy estimates, each in [0,1].
type EnergyCurve struct {
	Morning   float64 `json:"morning" yaml:"morning"`
	Afternoon float64 `json:"afternoon" yaml:"afternoon"`
	Evening   float64 `json:"evening" yaml:"evening"`
}

// PersonalityPreset is a named behavioral profile selected by a user. It is
// read-only reference data: it supplies defaults to ScheduleOptions and
// feeds the energy recommender.
type PersonalityPreset struct {
	Key                 string      `json:"key" yaml:"key"`
	Name                string      `json:"name" yaml:"name"`
	Description         string      `json:"description" yaml:"description"`
	WorkdayStart        string      `json:"workday_start" yaml:"workday_start"`
	WorkdayEnd          string      `json:"workday_end" yaml:"workday_end"`
	PeakStart           string      `json:"peak_start" yaml:"peak_start"`
	PeakEnd             string      `json:"peak_end" yaml:"peak_end"`
	MaxContextSwitches  int         `json:"max_context_switches" yaml:"max_context_switches"`
	FocusBlockMinutes   int         `json:"focus_block_minutes" yaml:"focus_block_minutes"`
	BreakMinutes        int         `json:"break_minutes" yaml:"break_minutes"`
	PreferredCategories []string    `json:"preferred_categories" yaml:"preferred_categories"`
	Energy              EnergyCurve `json:"energy" yaml:"energy"`
	QuietStart          string      `json:"quiet_start" yaml:"quiet_start"`
	QuietEnd            string      `json:"quiet_end" yaml:"quiet_end"`
	NotificationsMuted  bool        `json:"notifications_muted" yaml:"notifications_muted"`
}

// ScheduleOptions derives a run configuration from the preset, falling back
// to the documented defaults for anything the preset does not cover.
func (p *PersonalityPreset) ScheduleOptions() ScheduleOptions {
	opts := DefaultScheduleOptions()
	if p.WorkdayStart != "" {
		opts.WorkdayStart = p.WorkdayStart
	}
	if p.WorkdayEnd != "" {
		opts.WorkdayEnd = p.WorkdayEnd
	}
	if p.BreakMinutes > 0 {
		opts.BreakMinutes = p.BreakMinutes
	}
	if p.MaxContextSwitches > 0 {
		opts.MaxTasksPerDay = p.MaxContextSwitches
	}
	return opts
}
