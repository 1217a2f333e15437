package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardpulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boardpulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	dashboardCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardpulse_dashboard_cache_requests_total",
			Help: "Dashboard snapshot cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	activityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardpulse_activity_events_total",
			Help: "Ledger events recorded by type",
		},
		[]string{"type"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardpulse_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)
)

// Metrics returns a middleware that records request counts and latencies.
// Paths are recorded as chi route patterns so cardinality stays bounded.
func Metrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())

			if wrapped.status >= 400 {
				errorType := "client_error"
				if wrapped.status >= 500 {
					errorType = "server_error"
				}
				errorsTotal.WithLabelValues(errorType).Inc()
			}
		})
	}
}

// RecordDashboardCache records one dashboard cache lookup outcome, "hit" or
// "miss".
func RecordDashboardCache(outcome string) {
	dashboardCacheRequests.WithLabelValues(outcome).Inc()
}

// RecordActivityEvent records one persisted ledger event.
func RecordActivityEvent(eventType string) {
	activityEventsTotal.WithLabelValues(eventType).Inc()
}
