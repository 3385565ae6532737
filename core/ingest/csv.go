// Package ingest parses the renovation CSV into typed task records. Failures
// are reported row by row alongside a partial result; a malformed row never
// aborts the run and a missing duration is never imputed.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/buildsite/crewplan/core/model"
)

// Exact header names required in the input CSV.
const (
	HeaderSection    = "Section"
	HeaderSubsection = "Subsection"
	HeaderDay        = "Day"
	HeaderTime       = "Time (hours)"
	HeaderLabor      = "Labor (workers)"
	HeaderTask       = "Task" // optional activity name
)

// RowError reports a CSV row that was skipped and why.
type RowError struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d (%s): %s", e.Line, e.Content, e.Reason)
}

// ParseResult is the ingestion contract exposed to the scheduler: an ordered
// task sequence, the identifiers whose duration is missing, and the rows that
// could not be parsed.
type ParseResult struct {
	Tasks           []model.Task
	MissingDuration []string
	RowErrors       []RowError
}

// Warnings renders row errors as user-facing warning strings.
func (r *ParseResult) Warnings() []string {
	out := make([]string, 0, len(r.RowErrors))
	for _, e := range r.RowErrors {
		out = append(out, "skipped "+e.String())
	}
	return out
}

type cell struct {
	section    string
	subsection string
	name       string
	day        int
	hours      *float64
	crew       int
}

// ParseCSV reads the task CSV. Header names must match exactly; rows with an
// unparseable day, time or labor value are skipped and reported.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	for _, req := range []string{HeaderSection, HeaderSubsection, HeaderDay, HeaderTime, HeaderLabor} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("csv header missing required column %q", req)
		}
	}

	res := &ParseResult{}
	var cells []cell
	seen := make(map[string]int) // group+day -> line, duplicate detection

	line := 1
	for {
		record, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: "", Reason: err.Error()})
			continue
		}
		content := strings.Join(record, ",")
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		section, subsection := get(HeaderSection), get(HeaderSubsection)
		if section == "" || subsection == "" {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: "missing section or subsection"})
			continue
		}
		day, err := strconv.Atoi(get(HeaderDay))
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: "unparseable day"})
			continue
		}
		if day < model.MinDay || day > model.MaxDay {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: fmt.Sprintf("day %d outside calendar range %d-%d", day, model.MinDay, model.MaxDay)})
			continue
		}
		var hours *float64
		if raw := get(HeaderTime); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: "unparseable time"})
				continue
			}
			if v < 0 {
				res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: "negative time"})
				continue
			}
			hours = &v
		}
		crewRaw := get(HeaderLabor)
		crew := 0
		if crewRaw != "" {
			crew, err = strconv.Atoi(crewRaw)
			if err != nil || crew < 0 {
				res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: "unparseable labor"})
				continue
			}
		}

		key := model.NewGroupKey(section, subsection) + "#" + strconv.Itoa(day)
		if prev, dup := seen[key]; dup {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Content: content, Reason: fmt.Sprintf("duplicate entry for day %d (first seen on row %d)", day, prev)})
			continue
		}
		seen[key] = line

		cells = append(cells, cell{
			section:    section,
			subsection: subsection,
			name:       get(HeaderTask),
			day:        day,
			hours:      hours,
			crew:       crew,
		})
	}

	res.Tasks = mergeCells(cells)
	for _, t := range res.Tasks {
		if t.DurationMissing() {
			res.MissingDuration = append(res.MissingDuration, t.ID)
		}
	}
	return res, nil
}

// mergeCells folds per-day cells into tasks. Consecutive days within the same
// section/subsection that carry the same activity name become one task
// spanning those days: hours are summed, crew is the per-day maximum, and the
// merged duration is missing if any constituent day is missing one.
func mergeCells(cells []cell) []model.Task {
	sort.SliceStable(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if c := model.LabelOrder(a.section, b.section); c != 0 {
			return c < 0
		}
		if c := model.LabelOrder(a.subsection, b.subsection); c != 0 {
			return c < 0
		}
		return a.day < b.day
	})

	var tasks []model.Task
	for _, c := range cells {
		if n := len(tasks); n > 0 {
			last := &tasks[n-1]
			if last.Section == c.section && last.Subsection == c.subsection &&
				last.Name == c.name && last.LastDay+1 == c.day {
				last.LastDay = c.day
				if last.Hours == nil || c.hours == nil {
					last.Hours = nil
				} else {
					sum := *last.Hours + *c.hours
					last.Hours = &sum
				}
				if c.crew > last.Crew {
					last.Crew = c.crew
				}
				continue
			}
		}
		t := model.Task{
			ID:         model.TaskID(c.section, c.subsection, c.day),
			GroupKey:   model.NewGroupKey(c.section, c.subsection),
			Section:    c.section,
			Subsection: c.subsection,
			Name:       c.name,
			FirstDay:   c.day,
			LastDay:    c.day,
			Crew:       c.crew,
		}
		if c.hours != nil {
			v := *c.hours
			t.Hours = &v
		}
		tasks = append(tasks, t)
	}
	return tasks
}
