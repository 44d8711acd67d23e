package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the compiler
type Registry struct {
	// Compile Metrics
	CompileRunsTotal     *prometheus.CounterVec
	CompileDuration      prometheus.Histogram
	PhaseDuration        *prometheus.HistogramVec
	RowsTotal            *prometheus.CounterVec
	WorkerPanicsTotal    prometheus.Counter
	JunctionStagesTotal  prometheus.Gauge
	JunctionEdgesTotal   prometheus.Gauge
	LastCompileTimestamp prometheus.Gauge

	// Topology Metrics
	TopologyViolationsTotal *prometheus.CounterVec

	// Audit Metrics
	AuditDiagnosticsTotal *prometheus.CounterVec

	// Output Metrics
	CacheRequestsTotal *prometheus.CounterVec
	ExportsTotal       *prometheus.CounterVec
	ExportBytes        *prometheus.CounterVec

	// System Metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initCompileMetrics()
	r.initTopologyMetrics()
	r.initAuditMetrics()
	r.initOutputMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
