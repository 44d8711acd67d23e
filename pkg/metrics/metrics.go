package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Row statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RecordCompile records a finished compile run
func (r *Registry) RecordCompile(status string, duration time.Duration) {
	r.CompileRunsTotal.WithLabelValues(status).Inc()
	r.CompileDuration.Observe(duration.Seconds())
	r.LastCompileTimestamp.Set(float64(time.Now().Unix()))
}

// RecordPhase records the duration of one compile phase
func (r *Registry) RecordPhase(phase string, duration time.Duration) {
	r.PhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordRow counts a generated row. Rows that failed classification have no
// template and are counted under "none".
func (r *Registry) RecordRow(template string, ok bool) {
	if template == "" {
		template = "none"
	}
	status := StatusOK
	if !ok {
		status = StatusError
	}
	r.RowsTotal.WithLabelValues(template, status).Inc()
}

// RecordDiagnostic counts one row diagnostic
func (r *Registry) RecordDiagnostic(code string, corrected bool) {
	r.AuditDiagnosticsTotal.WithLabelValues(code, strconv.FormatBool(corrected)).Inc()
}

// RecordViolation counts one topology violation
func (r *Registry) RecordViolation(violationType string) {
	r.TopologyViolationsTotal.WithLabelValues(violationType).Inc()
}

// SetJunctionSize records the size of the junction being compiled
func (r *Registry) SetJunctionSize(stages, transitions int) {
	r.JunctionStagesTotal.Set(float64(stages))
	r.JunctionEdgesTotal.Set(float64(transitions))
}

// RecordCache counts a cache lookup
func (r *Registry) RecordCache(hit bool) {
	if hit {
		r.CacheRequestsTotal.WithLabelValues("hit").Inc()
		return
	}
	r.CacheRequestsTotal.WithLabelValues("miss").Inc()
}

// RecordExport counts an export to a sink
func (r *Registry) RecordExport(sink string, bytes int, err error) {
	if err != nil {
		r.ExportsTotal.WithLabelValues(sink, StatusError).Inc()
		return
	}
	r.ExportsTotal.WithLabelValues(sink, StatusOK).Inc()
	r.ExportBytes.WithLabelValues(sink).Add(float64(bytes))
}

// UpdateSystemMetrics samples the Go runtime
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(ms.Alloc))
}

// WriteTextfile writes the registry in the node-exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
