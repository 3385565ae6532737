package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/buildsite/crewplan/core/model"
)

func sampleResult() *model.Result {
	h := 8.0
	return &model.Result{
		Entries: []model.ScheduleEntry{
			{
				Task:     model.Task{ID: "1.01.1", Name: "Strip walls", Hours: &h, Crew: 3},
				StartDay: 1, EndDay: 2, OnCriticalPath: true,
			},
			{
				Task:     model.Task{ID: "2.01.1", Name: "Survey", Hours: &h, Crew: 2},
				StartDay: 1, EndDay: 1,
			},
		},
		Profile: model.ResourceProfile{Days: []model.DayLoad{
			{Day: 1, Workers: 5, Cap: 5},
			{Day: 2, Workers: 3, Cap: 5},
		}},
		ProjectFinishDays: 2,
	}
}

func TestGanttSeries(t *testing.T) {
	bars := GanttSeries(sampleResult().Entries)
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Label != "1.01.1 Strip walls" || !bars[0].Critical {
		t.Fatalf("first bar wrong: %+v", bars[0])
	}
	if bars[1].StartDay != 1 || bars[1].EndDay != 1 {
		t.Fatalf("second bar wrong: %+v", bars[1])
	}
}

func TestUtilizationSeries(t *testing.T) {
	profile := model.ResourceProfile{Days: []model.DayLoad{
		{Day: 1, Workers: 6, Cap: 5, Violation: true},
		{Day: 2, Workers: 3, Cap: 5},
	}}
	points := UtilizationSeries(profile)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !points[0].Violation || points[1].Violation {
		t.Fatalf("violation flags wrong: %+v", points)
	}
}

func TestDashboardRenders(t *testing.T) {
	var buf bytes.Buffer
	if err := Dashboard(&buf, sampleResult(), 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Project Schedule (Gantt)") {
		t.Fatalf("gantt chart missing from page")
	}
	if !strings.Contains(html, "Daily Labor Demand") {
		t.Fatalf("utilization chart missing from page")
	}
	if !strings.Contains(html, "Strip walls") {
		t.Fatalf("task labels missing from page")
	}
}
