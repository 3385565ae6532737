package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Project calendar bounds: every task day falls within this range.
const (
	MinDay = 1
	MaxDay = 91
)

// Task is one schedulable activity from the renovation plan. A task covers a
// contiguous span of calendar days within a single section/subsection group.
type Task struct {
	// ID is the canonical identifier Section.Subsection.FirstDay, e.g. "2.01.5".
	ID string `json:"id"`
	// GroupKey is the Section.Subsection pair, e.g. "2.01".
	GroupKey   string `json:"group_key"`
	Section    string `json:"section"`
	Subsection string `json:"subsection"`
	Name       string `json:"name,omitempty"`
	FirstDay   int    `json:"first_day"`
	LastDay    int    `json:"last_day"`
	// Hours is the total workload. Nil means the CSV carried no value; it is
	// never imputed and makes the task indeterminate for scheduling.
	Hours *float64 `json:"hours,omitempty"`
	// Crew is the number of workers the task draws on each day it is active.
	Crew int    `json:"crew"`
	Note string `json:"note,omitempty"`
}

// SpanDays returns the number of calendar days the task occupies.
func (t Task) SpanDays() int { return t.LastDay - t.FirstDay + 1 }

// DurationMissing reports whether the task has no usable duration.
func (t Task) DurationMissing() bool { return t.Hours == nil }

// TaskID synthesizes the canonical task identifier.
func TaskID(section, subsection string, firstDay int) string {
	return fmt.Sprintf("%s.%s.%d", section, subsection, firstDay)
}

// NewGroupKey synthesizes the section/subsection key, e.g. ("2", "01") -> "2.01".
func NewGroupKey(section, subsection string) string {
	return section + "." + subsection
}

// LabelOrder compares two section or subsection labels numerically when both
// parse as numbers, falling back to a string comparison. It returns a value
// with the semantics of strings.Compare.
func LabelOrder(a, b string) int {
	na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
