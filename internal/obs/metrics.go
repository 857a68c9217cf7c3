package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Authentication failures by class (malformed, expired, signature, inactive).",
		},
		[]string{"reason"},
	)

	registerOnce = false
)

// Init registers metrics with the default registry. Safe to call once from
// bootstrap; tests that build multiple servers skip re-registration.
func Init() {
	if registerOnce {
		return
	}
	registerOnce = true
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, authFailuresTotal)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CountAuthFailure bumps the auth failure counter for one failure class.
func CountAuthFailure(reason string) {
	if !registerOnce {
		return
	}
	authFailuresTotal.WithLabelValues(reason).Inc()
}

// Instrument wraps a handler with request count, latency and in-flight
// tracking, and emits one structured log line per request. It must wrap the
// mux directly: the path label comes from the matched route pattern, which
// the mux records on the request during routing. Labeling by raw URL path
// would give one time series per slug.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		if registerOnce {
			httpInFlight.Inc()
			defer httpInFlight.Dec()
		}
		next.ServeHTTP(sw, r)

		path := r.URL.Path
		if r.Pattern != "" {
			path = r.Pattern
		}
		duration := time.Since(start)
		status := strconv.Itoa(sw.code)
		if registerOnce {
			httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
		}
		Log("http.request", map[string]any{
			"method":      method,
			"path":        path,
			"status":      sw.code,
			"duration_ms": duration.Milliseconds(),
		})
	})
}

type statusWriter struct {
	http.ResponseWriter
	code  int
	wrote bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.code = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.wrote = true
	}
	return w.ResponseWriter.Write(b)
}
