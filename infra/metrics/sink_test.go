package metrics

import (
	"errors"
	"testing"
)

type recordingSink struct {
	calls int
	err   error
}

func (r *recordingSink) RecordRun(RunStats) error {
	r.calls++
	return r.err
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRun(RunStats{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("fan-out wrong: %d/%d", a.calls, b.calls)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	want := errors.New("write failed")
	a := &recordingSink{err: want}
	b := &recordingSink{err: errors.New("later")}
	m := NewMultiSink(a, b)
	if err := m.RecordRun(RunStats{}); !errors.Is(err, want) {
		t.Fatalf("expected first error, got %v", err)
	}
	// A failing sink never blocks the others.
	if b.calls != 1 {
		t.Fatalf("second sink skipped")
	}
}

func TestFromConfigEmpty(t *testing.T) {
	sink, err := FromConfig(Config{})
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if _, ok := sink.(NopSink); !ok {
		t.Fatalf("expected nop sink, got %T", sink)
	}
}

func TestFromConfigPrometheus(t *testing.T) {
	sink, err := FromConfig(Config{PrometheusEnabled: true})
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if _, ok := sink.(*PromSink); !ok {
		t.Fatalf("expected prometheus sink, got %T", sink)
	}
}
