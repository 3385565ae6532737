// Package metrics records scheduling-run observability data. Sinks are
// pluggable: Prometheus for scraping, InfluxDB as an optional push target,
// combined through a multi-sink.
package metrics

import "time"

// Config selects and configures the metric sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// RunStats describes one completed scheduling run.
type RunStats struct {
	RunID             string
	Duration          time.Duration
	Tasks             int
	Indeterminate     int
	Adjustments       int
	Conflicts         int
	ProjectFinishDays int
	Time              time.Time
}

// Sink receives run statistics.
type Sink interface {
	RecordRun(stats RunStats) error
}

// NopSink discards all statistics.
type NopSink struct{}

func (NopSink) RecordRun(RunStats) error { return nil }

// MultiSink fans out to several sinks, returning the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordRun(stats RunStats) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.RecordRun(stats); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FromConfig assembles the configured sinks into a single Sink.
func FromConfig(cfg Config) (Sink, error) {
	var sinks []Sink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
