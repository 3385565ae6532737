// Package cpm implements the critical path method over the task graph:
// forward and backward passes in whole-day units, slack, and the critical
// set. Tasks without a duration are excluded and reported as indeterminate
// together with everything that depends on them.
package cpm

import (
	"sort"

	"github.com/buildsite/crewplan/core/graph"
)

// Timing holds the computed schedule values for one task, as zero-based day
// offsets from project start.
type Timing struct {
	TaskID   string
	ES, EF   int
	LS, LF   int
	Slack    int
	Critical bool
}

// Analysis is the outcome of one CPM run.
type Analysis struct {
	Timings map[string]*Timing
	// Order lists the scheduled (determinate) tasks in topological order.
	Order []string
	// CriticalPath lists critical tasks in topological order. It always
	// contains at least one start-to-finish chain; when several zero-float
	// chains exist all of them are included.
	CriticalPath []string
	// Indeterminate lists tasks excluded for missing duration, directly or
	// through a dependency, in topological order.
	Indeterminate []string
	// ProjectFinish is the computed minimum project length in days.
	ProjectFinish int
	// SeededFinish is the finish used to seed the backward pass: the target
	// duration when one is supplied and feasible, otherwise ProjectFinish.
	SeededFinish     int
	TargetInfeasible bool
}

// Analyze runs the forward and backward passes. targetDays <= 0 means no
// target; a target smaller than the computed minimum is flagged infeasible
// and the unconstrained finish is used instead of silently truncating.
func Analyze(g *graph.Graph, targetDays int) *Analysis {
	an := &Analysis{Timings: make(map[string]*Timing, len(g.Tasks))}

	excluded := excludeIndeterminate(g)
	for _, id := range g.Order {
		if excluded[id] {
			an.Indeterminate = append(an.Indeterminate, id)
		} else {
			an.Order = append(an.Order, id)
		}
	}

	// Forward pass: ES = max(EF of predecessors), EF = ES + span.
	for _, id := range an.Order {
		es := 0
		for _, pred := range g.RevAdj[id] {
			if excluded[pred] {
				continue
			}
			if ef := an.Timings[pred].EF; ef > es {
				es = ef
			}
		}
		an.Timings[id] = &Timing{TaskID: id, ES: es, EF: es + g.Tasks[id].SpanDays()}
	}

	for _, t := range an.Timings {
		if t.EF > an.ProjectFinish {
			an.ProjectFinish = t.EF
		}
	}

	an.SeededFinish = an.ProjectFinish
	if targetDays > 0 {
		if targetDays < an.ProjectFinish {
			an.TargetInfeasible = true
		} else {
			an.SeededFinish = targetDays
		}
	}

	// Backward pass in reverse topological order, seeded from the project
	// finish: LF = min(LS of successors), LS = LF - span.
	for i := len(an.Order) - 1; i >= 0; i-- {
		id := an.Order[i]
		t := an.Timings[id]
		lf := an.SeededFinish
		for _, succ := range g.Adj[id] {
			if excluded[succ] {
				continue
			}
			if ls := an.Timings[succ].LS; ls < lf {
				lf = ls
			}
		}
		t.LF = lf
		t.LS = lf - g.Tasks[id].SpanDays()
		t.Slack = t.LS - t.ES
	}

	// Criticality is slack equal to the project float. Without a target the
	// float is zero and this is plain zero slack; with a target beyond the
	// computed finish every task carries the float, and the minimum-slack
	// chain is still the one that cannot slip without moving the finish.
	float := an.SeededFinish - an.ProjectFinish
	for _, id := range an.Order {
		t := an.Timings[id]
		if t.Slack == float {
			t.Critical = true
			an.CriticalPath = append(an.CriticalPath, id)
		}
	}
	return an
}

// excludeIndeterminate marks tasks with missing duration and everything
// reachable from them through dependency edges.
func excludeIndeterminate(g *graph.Graph) map[string]bool {
	excluded := make(map[string]bool)
	var seeds []string
	for id, t := range g.Tasks {
		if t.DurationMissing() {
			seeds = append(seeds, id)
		}
	}
	sort.Strings(seeds)
	for len(seeds) > 0 {
		id := seeds[0]
		seeds = seeds[1:]
		if excluded[id] {
			continue
		}
		excluded[id] = true
		seeds = append(seeds, g.Adj[id]...)
	}
	return excluded
}
