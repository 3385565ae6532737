package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records scheduling runs in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	tasks    prometheus.Gauge
	finish   prometheus.Gauge
	conflict prometheus.Counter
}

// NewPromSink registers scheduling metrics on the default Prometheus
// registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Total number of scheduling runs",
	}, []string{"has_conflicts"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Wall time of a full ingest-and-schedule recomputation",
		Buckets: prometheus.DefBuckets,
	})
	tasks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_tasks",
		Help: "Number of tasks in the most recent run",
	})
	finish := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_project_finish_days",
		Help: "Computed minimum project length of the most recent run",
	})
	conflict := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_leveling_conflicts_total",
		Help: "Total unresolvable leveling conflicts across runs",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(tasks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			tasks = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(finish); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			finish = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflict); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflict = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, duration: duration, tasks: tasks, finish: finish, conflict: conflict}, nil
}

// RecordRun updates all run metrics.
func (s *PromSink) RecordRun(stats RunStats) error {
	s.runs.WithLabelValues(strconv.FormatBool(stats.Conflicts > 0)).Inc()
	s.duration.Observe(stats.Duration.Seconds())
	s.tasks.Set(float64(stats.Tasks))
	s.finish.Set(float64(stats.ProjectFinishDays))
	s.conflict.Add(float64(stats.Conflicts))
	return nil
}
