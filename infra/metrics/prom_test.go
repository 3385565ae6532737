package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromSinkRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	err = sink.RecordRun(RunStats{
		RunID:             "r1",
		Duration:          120 * time.Millisecond,
		Tasks:             12,
		Conflicts:         2,
		ProjectFinishDays: 34,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(sink.runs.WithLabelValues("true")); got != 1 {
		t.Fatalf("runs counter wrong: %v", got)
	}
	if got := testutil.ToFloat64(sink.tasks); got != 12 {
		t.Fatalf("tasks gauge wrong: %v", got)
	}
	if got := testutil.ToFloat64(sink.finish); got != 34 {
		t.Fatalf("finish gauge wrong: %v", got)
	}
	if got := testutil.ToFloat64(sink.conflict); got != 2 {
		t.Fatalf("conflict counter wrong: %v", got)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	s2, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
	if err := s2.RecordRun(RunStats{Tasks: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}
}
