// Package metrics holds the Prometheus collectors of the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LatencyBuckets are the HTTP latency histogram buckets in seconds.
var LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0}

// Metrics is the set of registry collectors.
type Metrics struct {
	// Dispatch
	IDsDispatched       *prometheus.CounterVec
	DispatchRejections  *prometheus.CounterVec
	CounterReconciles   *prometheus.CounterVec
	AllocatedIDsFetched *prometheus.CounterVec

	// ID generation
	IDsGenerated *prometheus.CounterVec

	// Bulk pipeline
	PipelineItems *prometheus.CounterVec

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IDsDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_ids_dispatched_total",
			Help: "Ids handed out to devices",
		}, []string{"tenant"}),
		DispatchRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_dispatch_rejections_total",
			Help: "Dispatch requests rejected, by error code",
		}, []string{"tenant", "code"}),
		CounterReconciles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_dispatch_counter_reconciles_total",
			Help: "Dispatch counters reset from the transaction log",
		}, []string{"tenant"}),
		AllocatedIDsFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_allocated_ids_fetched_total",
			Help: "Previously dispatched ids returned again to devices",
		}, []string{"tenant"}),
		IDsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_ids_generated_total",
			Help: "Ids produced by the format engine",
		}, []string{"tenant", "target"}),
		PipelineItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_pipeline_items_total",
			Help: "Bulk pipeline items by entity, operation and outcome",
		}, []string{"entity", "operation", "result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: LatencyBuckets,
		}, []string{"method", "route"}),
	}
}

// ObservePipeline counts accepted and rejected items of one bulk call.
func (m *Metrics) ObservePipeline(entity, operation string, accepted, rejected int) {
	if m == nil {
		return
	}
	m.PipelineItems.WithLabelValues(entity, operation, "accepted").Add(float64(accepted))
	m.PipelineItems.WithLabelValues(entity, operation, "rejected").Add(float64(rejected))
}
