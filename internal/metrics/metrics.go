// Package metrics exposes Prometheus counters for the satviz HTTP surface
// and the catalog lookups behind it.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes recorded by ObserveLookup.
const (
	ResultOK        = "ok"
	ResultNotFound  = "not_found"
	ResultTransport = "transport"
	ResultOther     = "other"
	ResultLimited   = "rate_limited"
)

// Collector bundles the satviz metrics registered against one registerer.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Lookups      *prometheus.CounterVec
	WSClients    prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "satviz_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "satviz_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		}, []string{"route", "method"}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "satviz_track_requests_total",
			Help: "Track requests by resolved satellite and outcome.",
		}, []string{"satellite", "result"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "satviz_ws_clients",
			Help: "Currently connected WebSocket clients.",
		}),
	}

	for _, col := range []prometheus.Collector{c.HTTPRequests, c.HTTPDuration, c.Lookups, c.WSClients} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Handler serves the metrics gathered from the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// ObserveLookup counts one track request outcome.
func (c *Collector) ObserveLookup(satellite, result string) {
	if satellite == "" {
		satellite = "unknown"
	}
	c.Lookups.WithLabelValues(satellite, result).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack passes through to the wrapped writer so /ws upgrades still work.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	return h.Hijack()
}

// Middleware records request count and duration for each request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := normalizeRoute(r.URL.Path)
		c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		c.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// normalizeRoute keeps label cardinality bounded: unknown paths from
// scanners and bots collapse into one label.
func normalizeRoute(path string) string {
	switch path {
	case "/", "/health", "/metrics", "/ws":
		return path
	default:
		return "other"
	}
}
