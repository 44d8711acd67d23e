package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCompileMetrics() {
	r.CompileRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_compile_runs_total",
			Help: "Total number of compile runs by outcome",
		},
		[]string{"status"},
	)

	r.CompileDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jnet_compile_duration_seconds",
			Help:    "End-to-end compile duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.PhaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jnet_phase_duration_seconds",
			Help:    "Duration of each compile phase in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"phase"},
	)

	r.RowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_rows_total",
			Help: "Generated rows by template and status",
		},
		[]string{"template", "status"},
	)

	r.WorkerPanicsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "jnet_worker_panics_total",
			Help: "Row tasks that panicked and were recovered",
		},
	)

	r.JunctionStagesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "jnet_junction_stages",
			Help: "Stages in the last compiled junction",
		},
	)

	r.JunctionEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "jnet_junction_transitions",
			Help: "Declared transitions in the last compiled junction",
		},
	)

	r.LastCompileTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "jnet_last_compile_timestamp_seconds",
			Help: "Unix time of the last finished compile",
		},
	)
}
