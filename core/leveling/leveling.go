// Package leveling applies a single greedy, deterministic resource-leveling
// pass against a daily labor cap. It favors explainability over minimal total
// delay: no backtracking, every shift recorded, ties broken by task ID.
package leveling

import (
	"sort"

	"github.com/buildsite/crewplan/core/cpm"
	"github.com/buildsite/crewplan/core/graph"
	"github.com/buildsite/crewplan/core/model"
)

// Reasons recorded on adjustments and conflicts.
const (
	ReasonCapExceeded        = "daily labor cap exceeded"
	ReasonPredecessorDelayed = "shifted predecessor finishes later"
)

// Plan is the outcome of leveling: final start offsets, the adjustments that
// produced them, unresolvable conflicts, and the per-day resource profile.
type Plan struct {
	Starts      map[string]int // zero-based start offset per scheduled task
	Adjustments []model.LevelingAdjustment
	Conflicts   []model.LevelingConflict
	Profile     model.ResourceProfile
}

// Level processes scheduled tasks in earliest-start order (ties broken by
// task identifier). Each task is placed no earlier than its earliest start
// and no earlier than the leveled finish of every predecessor, so shifts
// propagate down the dependency chain. Non-critical tasks are then shifted
// forward day-by-day until their crew fits under the cap; a shift past the
// latest finish is flagged rather than forbidden. Critical tasks are never
// shifted: when one cannot fit, or a shifted predecessor would delay it, an
// unresolvable conflict is recorded, the task stays at its earliest start and
// overloaded days are marked as violations. A cap <= 0 disables cap checks.
func Level(g *graph.Graph, an *cpm.Analysis, labourCap int) *Plan {
	plan := &Plan{Starts: make(map[string]int, len(an.Order))}

	order := append([]string(nil), an.Order...)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := an.Timings[order[i]], an.Timings[order[j]]
		if a.ES != b.ES {
			return a.ES < b.ES
		}
		return a.TaskID < b.TaskID
	})

	load := make(map[int]int)            // day -> workers
	violations := make(map[int][]string) // day -> conflicting task IDs
	maxDay := 0

	fits := func(start, span, crew int) bool {
		for d := start + 1; d <= start+span; d++ {
			if load[d]+crew > labourCap {
				return false
			}
		}
		return true
	}

	for _, id := range order {
		t := g.Tasks[id]
		timing := an.Timings[id]
		span, crew := t.SpanDays(), t.Crew

		// Earliest placement: the CPM earliest start, pushed past the leveled
		// finish of every already-placed predecessor.
		start := timing.ES
		for _, pred := range g.RevAdj[id] {
			ps, ok := plan.Starts[pred]
			if !ok {
				continue
			}
			if finish := ps + g.Tasks[pred].SpanDays(); finish > start {
				start = finish
			}
		}

		if timing.Critical && start > timing.ES {
			// A shifted predecessor finishes after this critical task must
			// begin; it stays at its earliest start and the blockage is
			// reported.
			plan.Conflicts = append(plan.Conflicts, model.LevelingConflict{
				TaskID: id,
				Day:    timing.ES + 1,
				Reason: ReasonPredecessorDelayed,
			})
			start = timing.ES
		}

		if labourCap > 0 && crew > 0 && !fits(start, span, crew) {
			if timing.Critical || crew > labourCap {
				// Unresolvable: the task must not move (critical) or can
				// never fit (crew alone exceeds the cap). Leave it in place
				// and flag the overloaded days.
				day := firstOverload(load, start, span, crew, labourCap)
				plan.Conflicts = append(plan.Conflicts, model.LevelingConflict{
					TaskID: id,
					Day:    day,
					Reason: ReasonCapExceeded,
				})
				for d := start + 1; d <= start+span; d++ {
					if load[d]+crew > labourCap {
						violations[d] = append(violations[d], id)
					}
				}
			} else {
				for !fits(start, span, crew) {
					start++
				}
			}
		}
		if !timing.Critical && start > timing.ES {
			plan.Adjustments = append(plan.Adjustments, model.LevelingAdjustment{
				TaskID:              id,
				FromDay:             timing.ES + 1,
				ToDay:               start + 1,
				Reason:              ReasonCapExceeded,
				ExceedsLatestFinish: start+span > timing.LF,
			})
		}

		plan.Starts[id] = start
		for d := start + 1; d <= start+span; d++ {
			load[d] += crew
		}
		if start+span > maxDay {
			maxDay = start + span
		}
	}

	if an.ProjectFinish > maxDay {
		maxDay = an.ProjectFinish
	}
	for d := 1; d <= maxDay; d++ {
		dl := model.DayLoad{Day: d, Workers: load[d], Cap: labourCap}
		if ids := violations[d]; len(ids) > 0 {
			sort.Strings(ids)
			dl.Violation = true
			dl.Conflicts = ids
		}
		plan.Profile.Days = append(plan.Profile.Days, dl)
	}
	return plan
}

func firstOverload(load map[int]int, start, span, crew, cap int) int {
	for d := start + 1; d <= start+span; d++ {
		if load[d]+crew > cap {
			return d
		}
	}
	return start + 1
}
