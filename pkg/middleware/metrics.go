package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics holds the Prometheus collectors for HTTP request tracking.
type RequestMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request collectors under the given namespace.
func NewRequestMetrics(namespace string, reg prometheus.Registerer) *RequestMetrics {
	m := &RequestMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}

// Metrics returns middleware that records request counts and durations.
func Metrics(m *RequestMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)
			next.ServeHTTP(recorder, r)

			path := r.URL.Path
			m.Requests.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
			m.Duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
