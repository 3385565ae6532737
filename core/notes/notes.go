// Package notes extracts free-text annotations from the drawing-set PDFs and
// associates them with tasks. Extraction failures degrade to an empty note
// set; scheduling never depends on notes being present.
package notes

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/buildsite/crewplan/core/model"
)

// Notes holds the annotations found in one or more documents.
type Notes struct {
	// General are "NOTE - ..." lines, de-duplicated in document order.
	General []string
	// ByGroup maps a section.subsection key to the notes anchored to it by a
	// marker in the text.
	ByGroup map[string][]string
}

// Merge folds another note set into this one.
func (n *Notes) Merge(other *Notes) {
	if other == nil {
		return
	}
	seen := make(map[string]bool, len(n.General))
	for _, g := range n.General {
		seen[g] = true
	}
	for _, g := range other.General {
		if !seen[g] {
			n.General = append(n.General, g)
			seen[g] = true
		}
	}
	if n.ByGroup == nil {
		n.ByGroup = make(map[string][]string)
	}
	for k, v := range other.ByGroup {
		n.ByGroup[k] = append(n.ByGroup[k], v...)
	}
}

// ExtractText pulls the plain text out of a PDF held in memory.
func ExtractText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return sb.String(), nil
}

var groupMarker = regexp.MustCompile(`^(\d+)\.(\d{1,2})\b[\s:.-]*(.*)$`)

// Parse scans extracted text for annotations. Lines beginning "NOTE -"
// (case-insensitive) become general notes; lines starting with a
// section.subsection marker such as "2.01" anchor the trailing text to that
// group.
func Parse(text string) *Notes {
	n := &Notes{ByGroup: make(map[string][]string)}
	seen := make(map[string]bool)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if low := strings.ToLower(line); strings.HasPrefix(low, "note -") {
			content := strings.TrimSpace(line[len("note -"):])
			if content != "" && !seen[content] {
				n.General = append(n.General, content)
				seen[content] = true
			}
			continue
		}
		if m := groupMarker.FindStringSubmatch(line); m != nil {
			content := strings.TrimSpace(m[3])
			if content == "" {
				continue
			}
			key := model.NewGroupKey(m[1], m[2])
			n.ByGroup[key] = append(n.ByGroup[key], content)
		}
	}
	return n
}

// Attach copies group-anchored notes onto the matching tasks and returns the
// updated slice. Multiple notes for a group are joined with "; ".
func Attach(tasks []model.Task, n *Notes) []model.Task {
	if n == nil || len(n.ByGroup) == 0 {
		return tasks
	}
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if anchored := n.ByGroup[out[i].GroupKey]; len(anchored) > 0 {
			out[i].Note = strings.Join(anchored, "; ")
		}
	}
	return out
}

// Match pairs a general note with a candidate task.
type Match struct {
	TaskID   string `json:"task_id"`
	Name     string `json:"name"`
	Distance int    `json:"distance"`
}

// Suggestion is a best-effort association of one note with its likeliest
// tasks.
type Suggestion struct {
	Note    string  `json:"note"`
	Matches []Match `json:"matches"`
}

// Suggest ranks every named task against each general note by Levenshtein
// distance and keeps the top limit candidates. Purely advisory.
func Suggest(general []string, tasks []model.Task, limit int) []Suggestion {
	if limit <= 0 {
		limit = 3
	}
	var named []model.Task
	for _, t := range tasks {
		if t.Name != "" {
			named = append(named, t)
		}
	}
	var out []Suggestion
	for _, note := range general {
		matches := make([]Match, 0, len(named))
		for _, t := range named {
			d := fuzzy.LevenshteinDistance(strings.ToLower(note), strings.ToLower(t.Name))
			matches = append(matches, Match{TaskID: t.ID, Name: t.Name, Distance: d})
		}
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Distance != matches[j].Distance {
				return matches[i].Distance < matches[j].Distance
			}
			return matches[i].TaskID < matches[j].TaskID
		})
		if len(matches) > limit {
			matches = matches[:limit]
		}
		out = append(out, Suggestion{Note: note, Matches: matches})
	}
	return out
}
