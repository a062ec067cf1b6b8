package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// --- Inbound (server) metrics ---
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_errors_total",
			Help: "Total number of HTTP requests resulting in client or server errors.",
		},
		[]string{"method", "route", "code"},
	)

	// --- Outbound (client) metrics ---
	HTTPClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Total number of outbound HTTP requests.",
		},
		[]string{"method", "code"},
	)
	HTTPClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Latency of outbound HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)

	// --- Audit metrics ---
	PagesAuditedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_pages_audited_total",
			Help: "Pages analysed, by resulting severity.",
		},
		[]string{"severity"},
	)
	PageFetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_page_fetch_failures_total",
			Help: "Pages whose markup could not be retrieved, by failure kind.",
		},
		[]string{"kind"},
	)
	DiscoveryRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_discovery_requests_total",
			Help: "Content source pagination requests, by collection and outcome.",
		},
		[]string{"collection", "outcome"},
	)
	PageCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_page_cache_total",
			Help: "Markup cache lookups, by result.",
		},
		[]string{"result"},
	)
	AuditDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seo_audit_duration_seconds",
			Help:    "Wall time of complete site audits.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// --- Runtime metrics ---
	CPUCount = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "process_cpu_count",
			Help: "Number of CPU cores available.",
		},
		func() float64 { return float64(runtime.NumCPU()) },
	)
)

// MetricsRegister builds the registry served on the metrics endpoint.
func MetricsRegister() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestErrorsTotal,
		HTTPClientRequestsTotal,
		HTTPClientRequestDuration,
		PagesAuditedTotal,
		PageFetchFailuresTotal,
		DiscoveryRequestsTotal,
		PageCacheTotal,
		AuditDuration,
		CPUCount,
	)

	return reg
}
