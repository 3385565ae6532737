// Package graph builds the explicit task-dependency graph once at ingestion
// time. Precedence is derived from section/subsection/day ordering by an
// independently testable rule rather than inferred during CPM computation.
package graph

import (
	"fmt"
	"sort"

	"github.com/buildsite/crewplan/core/model"
)

// Graph is the dependency structure over a task set: adjacency keyed by task
// identifier plus a deterministic topological order.
type Graph struct {
	Tasks  map[string]model.Task
	Adj    map[string][]string // task -> successors
	RevAdj map[string][]string // task -> predecessors
	Order  []string            // topological order
}

// DeriveDependencies computes each task's predecessors from the
// section/subsection/day sequencing rule: tasks chain within a group
// (section, subsection) by ascending first day, and the first task of a group
// depends on the final task of the preceding subsection in the same section.
// Sections are independent work fronts and carry no edges between them.
// Subsections order numerically, falling back to string order for labels that
// do not parse as numbers.
func DeriveDependencies(tasks []model.Task) map[string][]string {
	byGroup := make(map[string][]model.Task)
	var groups []model.Task // one representative per group, for ordering
	for _, t := range tasks {
		if _, ok := byGroup[t.GroupKey]; !ok {
			groups = append(groups, t)
		}
		byGroup[t.GroupKey] = append(byGroup[t.GroupKey], t)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if c := model.LabelOrder(groups[i].Section, groups[j].Section); c != 0 {
			return c < 0
		}
		return model.LabelOrder(groups[i].Subsection, groups[j].Subsection) < 0
	})

	preds := make(map[string][]string, len(tasks))
	prevFinal := make(map[string]string) // section -> final task of previous group
	for _, rep := range groups {
		items := byGroup[rep.GroupKey]
		sort.SliceStable(items, func(i, j int) bool { return items[i].FirstDay < items[j].FirstDay })
		for i, t := range items {
			switch {
			case i > 0:
				preds[t.ID] = append(preds[t.ID], items[i-1].ID)
			case prevFinal[t.Section] != "":
				preds[t.ID] = append(preds[t.ID], prevFinal[t.Section])
			default:
				preds[t.ID] = nil
			}
		}
		prevFinal[rep.Section] = items[len(items)-1].ID
	}
	return preds
}

// Build constructs the graph for the given tasks and verifies it is acyclic.
func Build(tasks []model.Task) (*Graph, error) {
	g := &Graph{
		Tasks:  make(map[string]model.Task, len(tasks)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}
	for _, t := range tasks {
		if _, ok := g.Tasks[t.ID]; ok {
			return nil, fmt.Errorf("duplicate task identifier %s", t.ID)
		}
		g.Tasks[t.ID] = t
	}

	for id, preds := range DeriveDependencies(tasks) {
		for _, p := range preds {
			g.Adj[p] = append(g.Adj[p], id)
			g.RevAdj[id] = append(g.RevAdj[id], p)
		}
	}
	for k := range g.Adj {
		sort.Strings(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Strings(g.RevAdj[k])
	}

	order, err := topoSort(g.Tasks, g.Adj, g.RevAdj)
	if err != nil {
		return nil, err
	}
	g.Order = order
	return g, nil
}

// topoSort runs Kahn's algorithm with a lexicographic tie-break so the order
// is stable across runs.
func topoSort(tasks map[string]model.Task, adj, revAdj map[string][]string) ([]string, error) {
	inDegree := make(map[string]int, len(tasks))
	var queue []string
	for id := range tasks {
		inDegree[id] = len(revAdj[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(tasks))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var ready []string
		for _, succ := range adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
	}

	if len(order) != len(tasks) {
		return nil, fmt.Errorf("dependency graph has a cycle (%d of %d tasks ordered)", len(order), len(tasks))
	}
	return order, nil
}
