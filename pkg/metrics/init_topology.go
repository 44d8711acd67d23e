package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTopologyMetrics() {
	r.TopologyViolationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_topology_violations_total",
			Help: "Topology violations found by the validator",
		},
		[]string{"type"},
	)
}

func (r *Registry) initAuditMetrics() {
	r.AuditDiagnosticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_audit_diagnostics_total",
			Help: "Row diagnostics by code and whether they were corrected",
		},
		[]string{"code", "corrected"},
	)
}
