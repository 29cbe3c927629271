package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PagesFetchedTotal   *prometheus.CounterVec
	PagesInQueue        prometheus.Gauge
	AuditsTotal         *prometheus.CounterVec
	AuditDuration       *prometheus.HistogramVec
)

// Init registers all collectors on the default registry. Call once at
// process start, before any handler or crawl runs.
func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_pages_fetched_total",
			Help: "Pages fetched during site crawls.",
		},
		[]string{"status"}, // ok, skipped, failed
	)

	PagesInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_pages_in_queue",
			Help: "Current number of URLs queued for crawling.",
		},
	)

	AuditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audits_total",
			Help: "Total number of site audits run.",
		},
		[]string{"status"}, // success, failure
	)

	AuditDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audit_duration_seconds",
			Help:    "Wall time of full site audits.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)
}

// The helpers below are nil-safe so library callers work without Init, e.g.
// in tests that never start the metrics endpoint.

func IncPageFetched(status string) {
	if PagesFetchedTotal != nil {
		PagesFetchedTotal.WithLabelValues(status).Inc()
	}
}

func SetQueueDepth(n int) {
	if PagesInQueue != nil {
		PagesInQueue.Set(float64(n))
	}
}

func IncAudit(status string) {
	if AuditsTotal != nil {
		AuditsTotal.WithLabelValues(status).Inc()
	}
}

func ObserveAuditDuration(domain string, seconds float64) {
	if AuditDuration != nil {
		AuditDuration.WithLabelValues(domain).Observe(seconds)
	}
}
