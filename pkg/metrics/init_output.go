package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOutputMetrics() {
	r.CacheRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_cache_requests_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_exports_total",
			Help: "CSV exports by sink and status",
		},
		[]string{"sink", "status"},
	)

	r.ExportBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "jnet_export_bytes_total",
			Help: "Bytes written by CSV exports",
		},
		[]string{"sink"},
	)
}
