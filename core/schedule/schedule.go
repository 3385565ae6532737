// Package schedule orchestrates one full scheduling run: filter, dependency
// graph, CPM passes, resource leveling, and result assembly. Every run is a
// fresh, idempotent recomputation from the task records.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/buildsite/crewplan/core/cpm"
	"github.com/buildsite/crewplan/core/graph"
	"github.com/buildsite/crewplan/core/leveling"
	"github.com/buildsite/crewplan/core/model"
	"github.com/buildsite/crewplan/infra/logger"
	"github.com/buildsite/crewplan/infra/metrics"
)

// Params is the user-facing scheduler configuration.
type Params struct {
	// LabourCap is the daily worker limit; <= 0 disables leveling.
	LabourCap int `json:"labour_cap"`
	// TargetDays is the desired project duration; <= 0 means no target.
	TargetDays int `json:"target_days"`
	// Sections restricts the run to the named sections when non-empty.
	Sections []string `json:"sections,omitempty"`
	// Subsections restricts the run to the named section.subsection group
	// keys when non-empty.
	Subsections []string `json:"subsections,omitempty"`
}

// Engine runs the CPM and leveling passes and reports run statistics.
type Engine struct {
	log  logger.Logger
	sink metrics.Sink
}

// NewEngine creates an Engine. A nil sink disables metrics.
func NewEngine(log logger.Logger, sink metrics.Sink) *Engine {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{log: log, sink: sink}
}

// Run schedules the given tasks under the given parameters.
func (e *Engine) Run(tasks []model.Task, p Params) (*model.Result, error) {
	started := time.Now()
	runID := uuid.NewString()

	filtered := Filter(tasks, p.Sections, p.Subsections)
	g, err := graph.Build(filtered)
	if err != nil {
		return nil, fmt.Errorf("build dependency graph: %w", err)
	}

	an := cpm.Analyze(g, p.TargetDays)
	plan := leveling.Level(g, an, p.LabourCap)

	res := &model.Result{
		RunID:             runID,
		CriticalPath:      an.CriticalPath,
		Indeterminate:     an.Indeterminate,
		Adjustments:       plan.Adjustments,
		Conflicts:         plan.Conflicts,
		Profile:           plan.Profile,
		ProjectFinishDays: an.ProjectFinish,
		TargetDays:        p.TargetDays,
		TargetInfeasible:  an.TargetInfeasible,
	}

	for _, id := range an.Order {
		t := an.Timings[id]
		start := plan.Starts[id]
		task := g.Tasks[id]
		res.Entries = append(res.Entries, model.ScheduleEntry{
			Task:           task,
			ES:             t.ES,
			EF:             t.EF,
			LS:             t.LS,
			LF:             t.LF,
			Slack:          t.Slack,
			StartDay:       start + 1,
			EndDay:         start + task.SpanDays(),
			OnCriticalPath: t.Critical,
		})
	}
	sort.SliceStable(res.Entries, func(i, j int) bool {
		if res.Entries[i].StartDay != res.Entries[j].StartDay {
			return res.Entries[i].StartDay < res.Entries[j].StartDay
		}
		return res.Entries[i].ID < res.Entries[j].ID
	})

	res.Summary = summarize(plan.Profile)
	res.Warnings = warnings(an, plan)

	stats := metrics.RunStats{
		RunID:             runID,
		Duration:          time.Since(started),
		Tasks:             len(filtered),
		Indeterminate:     len(an.Indeterminate),
		Adjustments:       len(plan.Adjustments),
		Conflicts:         len(plan.Conflicts),
		ProjectFinishDays: an.ProjectFinish,
		Time:              started,
	}
	if err := e.sink.RecordRun(stats); err != nil {
		e.log.Warnf("record run metrics: %v", err)
	}
	e.log.Debugw("scheduling run complete", map[string]any{
		"run_id":        runID,
		"tasks":         len(filtered),
		"finish_days":   an.ProjectFinish,
		"indeterminate": len(an.Indeterminate),
		"conflicts":     len(plan.Conflicts),
	})
	return res, nil
}

// Filter returns the tasks matching the section and subsection selections.
// Empty selections keep everything.
func Filter(tasks []model.Task, sections, subsections []string) []model.Task {
	if len(sections) == 0 && len(subsections) == 0 {
		return tasks
	}
	secSet := toSet(sections)
	subSet := toSet(subsections)
	var out []model.Task
	for _, t := range tasks {
		if len(secSet) > 0 && !secSet[t.Section] {
			continue
		}
		if len(subSet) > 0 && !subSet[t.GroupKey] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func toSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

func summarize(profile model.ResourceProfile) model.UtilizationSummary {
	if len(profile.Days) == 0 {
		return model.UtilizationSummary{}
	}
	workers := make([]float64, len(profile.Days))
	for i, d := range profile.Days {
		workers[i] = float64(d.Workers)
	}
	return model.UtilizationSummary{
		MeanWorkers: stat.Mean(workers, nil),
		PeakWorkers: floats.Max(workers),
		StdDev:      stat.StdDev(workers, nil),
	}
}

func warnings(an *cpm.Analysis, plan *leveling.Plan) []string {
	var out []string
	if an.TargetInfeasible {
		out = append(out, fmt.Sprintf(
			"target duration is infeasible: computed minimum is %d days; showing the unconstrained schedule", an.ProjectFinish))
	}
	for _, id := range an.Indeterminate {
		out = append(out, fmt.Sprintf("task %s has no computable timing: duration missing, directly or via a dependency", id))
	}
	for _, c := range plan.Conflicts {
		out = append(out, fmt.Sprintf("unresolvable capacity conflict: task %s exceeds the labor cap on day %d", c.TaskID, c.Day))
	}
	for _, a := range plan.Adjustments {
		if a.ExceedsLatestFinish {
			out = append(out, fmt.Sprintf("task %s shifted from day %d to day %d past its latest finish", a.TaskID, a.FromDay, a.ToDay))
		}
	}
	return out
}
