// Package telemetry exposes Prometheus collectors for the snapshot service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	snapshotsLoadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "covidsnap_snapshots_loaded_total",
			Help: "Total number of snapshot documents parsed from disk.",
		},
	)

	snapshotRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "covidsnap_records_extracted_total",
			Help: "Total number of records extracted across all snapshot loads.",
		},
	)

	snapshotCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "covidsnap_cache_hits_total",
			Help: "Total number of snapshot loads served from the parse cache.",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)
)

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSnapshotLoad records a completed document parse and the number of
// records it produced.
func ObserveSnapshotLoad(records int) {
	snapshotsLoadedTotal.Inc()
	snapshotRecordsTotal.Add(float64(records))
}

// ObserveCacheHit records a snapshot load answered from the parse cache.
func ObserveCacheHit() {
	snapshotCacheHitsTotal.Inc()
}

// ObserveHTTPRequest records metrics for an HTTP request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware is a chi middleware that records HTTP request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		ObserveHTTPRequest(r.Method, routePattern, ww.statusCode, time.Since(start))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}
