package cpm

import (
	"reflect"
	"testing"

	"github.com/buildsite/crewplan/core/graph"
	"github.com/buildsite/crewplan/core/model"
)

func task(section, sub string, first, last int, hours *float64, crew int) model.Task {
	return model.Task{
		ID:         model.TaskID(section, sub, first),
		GroupKey:   model.NewGroupKey(section, sub),
		Section:    section,
		Subsection: sub,
		FirstDay:   first,
		LastDay:    last,
		Hours:      hours,
		Crew:       crew,
	}
}

func hrs(v float64) *float64 { return &v }

func mustBuild(t *testing.T, tasks []model.Task) *graph.Graph {
	t.Helper()
	g, err := graph.Build(tasks)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

// A spans days 1-2 (2h, crew 3), B follows on day 3 (1h, crew 2).
func chainAB(t *testing.T) *graph.Graph {
	t.Helper()
	return mustBuild(t, []model.Task{
		task("1", "01", 1, 2, hrs(2), 3),
		task("1", "01", 3, 3, hrs(1), 2),
	})
}

func TestAnalyzeChain(t *testing.T) {
	an := Analyze(chainAB(t), 0)
	a, b := an.Timings["1.01.1"], an.Timings["1.01.3"]
	if a.ES != 0 || a.EF != 2 || a.LS != 0 || a.LF != 2 {
		t.Fatalf("A timing wrong: %+v", a)
	}
	if b.ES != 2 || b.EF != 3 || b.LS != 2 || b.LF != 3 {
		t.Fatalf("B timing wrong: %+v", b)
	}
	if an.ProjectFinish != 3 || an.SeededFinish != 3 {
		t.Fatalf("finish wrong: %d/%d", an.ProjectFinish, an.SeededFinish)
	}
	if !reflect.DeepEqual(an.CriticalPath, []string{"1.01.1", "1.01.3"}) {
		t.Fatalf("critical path wrong: %v", an.CriticalPath)
	}
}

func TestAnalyzePassConsistency(t *testing.T) {
	// Two parallel sections of different length plus a shared-free layout.
	g := mustBuild(t, []model.Task{
		task("1", "01", 1, 3, hrs(24), 3),
		task("1", "02", 4, 4, hrs(8), 2),
		task("2", "01", 1, 1, hrs(8), 4),
	})
	an := Analyze(g, 0)

	maxEF := 0
	for _, tm := range an.Timings {
		if tm.EF > maxEF {
			maxEF = tm.EF
		}
	}
	if maxEF != an.SeededFinish {
		t.Fatalf("forward/backward inconsistency: max EF %d vs seeded finish %d", maxEF, an.SeededFinish)
	}

	for id, tm := range an.Timings {
		if tm.Critical && tm.Slack != 0 {
			t.Fatalf("critical task %s has slack %d", id, tm.Slack)
		}
		if !tm.Critical && tm.Slack <= 0 {
			t.Fatalf("non-critical task %s has slack %d", id, tm.Slack)
		}
	}
	// The short section has float, the long one is the critical chain.
	if an.Timings["2.01.1"].Critical {
		t.Fatalf("short section should not be critical")
	}
	if !an.Timings["1.01.1"].Critical || !an.Timings["1.02.4"].Critical {
		t.Fatalf("long chain should be critical: %v", an.CriticalPath)
	}
}

func TestAnalyzeMissingDurationPropagates(t *testing.T) {
	// C has no duration; D depends on C.
	g := mustBuild(t, []model.Task{
		task("1", "01", 1, 1, nil, 2),
		task("1", "01", 2, 2, hrs(4), 2),
		task("2", "01", 1, 1, hrs(4), 1),
	})
	an := Analyze(g, 0)
	if !reflect.DeepEqual(an.Indeterminate, []string{"1.01.1", "1.01.2"}) {
		t.Fatalf("indeterminate set wrong: %v", an.Indeterminate)
	}
	for _, id := range an.Indeterminate {
		if _, ok := an.Timings[id]; ok {
			t.Fatalf("indeterminate task %s received computed times", id)
		}
	}
	if _, ok := an.Timings["2.01.1"]; !ok {
		t.Fatalf("unrelated task must still be scheduled")
	}
	if an.ProjectFinish != 1 {
		t.Fatalf("finish must ignore indeterminate tasks: %d", an.ProjectFinish)
	}
}

func TestAnalyzeInfeasibleTarget(t *testing.T) {
	an := Analyze(chainAB(t), 2)
	if !an.TargetInfeasible {
		t.Fatalf("target 2 < minimum 3 must be infeasible")
	}
	if an.SeededFinish != 3 {
		t.Fatalf("infeasible target must fall back to computed finish, got %d", an.SeededFinish)
	}
	if len(an.CriticalPath) != 2 {
		t.Fatalf("critical path lost on fallback: %v", an.CriticalPath)
	}
}

func TestAnalyzeExtendedTarget(t *testing.T) {
	an := Analyze(chainAB(t), 10)
	if an.TargetInfeasible {
		t.Fatalf("target 10 >= minimum 3 is feasible")
	}
	if an.SeededFinish != 10 || an.ProjectFinish != 3 {
		t.Fatalf("finish wrong: seeded %d computed %d", an.SeededFinish, an.ProjectFinish)
	}
	a := an.Timings["1.01.1"]
	if a.Slack != 7 {
		t.Fatalf("slack should carry the project float, got %d", a.Slack)
	}
	// The minimum-slack chain is still reported as critical.
	if !reflect.DeepEqual(an.CriticalPath, []string{"1.01.1", "1.01.3"}) {
		t.Fatalf("critical path wrong under extended target: %v", an.CriticalPath)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	g := chainAB(t)
	an1 := Analyze(g, 0)
	an2 := Analyze(g, 0)
	if !reflect.DeepEqual(an1, an2) {
		t.Fatalf("analysis not idempotent")
	}
}
