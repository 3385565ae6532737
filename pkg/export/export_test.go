package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/buildsite/crewplan/core/model"
)

func entries() []model.ScheduleEntry {
	h := 8.0
	return []model.ScheduleEntry{
		{
			Task: model.Task{
				ID: "1.01.1", Section: "1", Subsection: "01", Name: "Strip walls",
				Hours: &h, Crew: 3,
			},
			StartDay: 1, EndDay: 2, Slack: 0, OnCriticalPath: true,
		},
		{
			Task: model.Task{
				ID: "2.01.1", Section: "2", Subsection: "01", Name: "Survey", Crew: 2,
			},
			StartDay: 1, EndDay: 1, Slack: 2,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries()); err != nil {
		t.Fatalf("write: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(recs))
	}
	if recs[0][0] != "id" || recs[0][9] != "on_critical_path" {
		t.Fatalf("header wrong: %v", recs[0])
	}
	if recs[1][0] != "1.01.1" || recs[1][6] != "8" || recs[1][9] != "true" {
		t.Fatalf("first row wrong: %v", recs[1])
	}
	// Missing hours export as an empty field, never a fabricated value.
	if recs[2][6] != "" {
		t.Fatalf("missing hours must stay empty: %v", recs[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	res := &model.Result{RunID: "r1", Entries: entries(), ProjectFinishDays: 2}
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("output should be indented")
	}
	var back model.Result
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.RunID != "r1" || len(back.Entries) != 2 || back.ProjectFinishDays != 2 {
		t.Fatalf("round trip wrong: %+v", back)
	}
}
