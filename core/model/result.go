package model

// ScheduleEntry is a task augmented with computed timing. ES/EF/LS/LF are
// zero-based day offsets from project start; StartDay/EndDay are the 1-based
// calendar days the task occupies after leveling.
type ScheduleEntry struct {
	Task
	ES             int  `json:"es"`
	EF             int  `json:"ef"`
	LS             int  `json:"ls"`
	LF             int  `json:"lf"`
	Slack          int  `json:"slack"`
	StartDay       int  `json:"start_day"`
	EndDay         int  `json:"end_day"`
	OnCriticalPath bool `json:"on_critical_path"`
}

// LevelingAdjustment records a start shift applied by resource leveling.
type LevelingAdjustment struct {
	TaskID  string `json:"task_id"`
	FromDay int    `json:"from_day"`
	ToDay   int    `json:"to_day"`
	Reason  string `json:"reason"`
	// ExceedsLatestFinish marks shifts that pushed a task past its latest
	// finish; the shift still happens but is surfaced as a violation.
	ExceedsLatestFinish bool `json:"exceeds_latest_finish,omitempty"`
}

// LevelingConflict names a task whose crew cannot fit under the daily cap
// without moving it, typically a critical-path task.
type LevelingConflict struct {
	TaskID string `json:"task_id"`
	Day    int    `json:"day"`
	Reason string `json:"reason"`
}

// DayLoad is the post-leveling labor demand for one calendar day.
type DayLoad struct {
	Day     int  `json:"day"`
	Workers int  `json:"workers"`
	Cap     int  `json:"cap"`
	// Violation is set on days where the cap is exceeded by an unresolvable
	// conflict; Conflicts lists the task IDs involved.
	Violation bool     `json:"violation,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// ResourceProfile maps each day of the schedule to its total labor demand.
type ResourceProfile struct {
	Days []DayLoad `json:"days"`
}

// UtilizationSummary aggregates the resource profile for reporting.
type UtilizationSummary struct {
	MeanWorkers float64 `json:"mean_workers"`
	PeakWorkers float64 `json:"peak_workers"`
	StdDev      float64 `json:"std_dev"`
}

// Result is the full output of one scheduling run. Every run recomputes it
// from raw inputs; nothing is cached across parameter changes.
type Result struct {
	RunID             string               `json:"run_id"`
	Entries           []ScheduleEntry      `json:"entries"`
	CriticalPath      []string             `json:"critical_path"`
	Indeterminate     []string             `json:"indeterminate"`
	Adjustments       []LevelingAdjustment `json:"adjustments"`
	Conflicts         []LevelingConflict   `json:"conflicts"`
	Profile           ResourceProfile      `json:"profile"`
	ProjectFinishDays int                  `json:"project_finish_days"`
	TargetDays        int                  `json:"target_days,omitempty"`
	TargetInfeasible  bool                 `json:"target_infeasible,omitempty"`
	Summary           UtilizationSummary   `json:"summary"`
	Warnings          []string             `json:"warnings,omitempty"`
}
