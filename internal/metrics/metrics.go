package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_http_requests_total",
		Help: "Total HTTP requests handled.",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "woc_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// CacheResults counts leaderboard cache outcomes: fresh, stale or miss.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_cache_results_total",
		Help: "SWR cache lookup outcomes.",
	}, []string{"state"})

	// ImportRows counts CSV import row outcomes.
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_import_rows_total",
		Help: "CSV import row outcomes.",
	}, []string{"outcome"})
)

// ObserveCache is an swr.Options observer that feeds CacheResults.
func ObserveCache(state string) {
	CacheResults.WithLabelValues(state).Inc()
}

// Handler exposes the default registry for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
