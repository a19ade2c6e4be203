// Package middleware contains the Gin middleware shared by every route.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedPath labels requests that hit no route, so probes for random
// URLs share one series.
const unmatchedPath = "unmatched"

// HTTPMetrics holds the per-request collectors. The path label is always
// the route template, never the raw URL.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	size     *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics creates the collectors and registers them with reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	route := []string{"method", "path"}
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dailyquote", Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, append(route, "status")),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dailyquote", Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, route),
		size: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dailyquote", Subsystem: "http", Name: "response_size_bytes",
			Help:    "HTTP response body size by method and route.",
			Buckets: prometheus.ExponentialBuckets(128, 4, 8),
		}, route),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dailyquote", Subsystem: "http", Name: "requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.size, m.inflight)
	return m
}

// Handler records one observation set per request.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inflight.Inc()
		defer m.inflight.Dec()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n >= 0 {
			m.size.WithLabelValues(method, path).Observe(float64(n))
		}
	}
}

var defaultHTTPMetrics = NewHTTPMetrics(prometheus.DefaultRegisterer)

// Metrics instruments requests against the default registry.
func Metrics() gin.HandlerFunc { return defaultHTTPMetrics.Handler() }

// MetricsHandler serves the default registry, which also carries the
// service counters and the Go runtime collectors.
func MetricsHandler() http.Handler { return promhttp.Handler() }
