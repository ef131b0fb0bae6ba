// Package monitoring collects Prometheus metrics for the HTTP surface
// and procedure executions.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Procedure metrics
	ProcedureCalls    *prometheus.CounterVec
	ProcedureDuration *prometheus.HistogramVec
	RowsReturned      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with its own registry, so
// collectors in tests do not collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filebridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filebridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ProcedureCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filebridge_procedure_calls_total",
				Help: "Total number of procedure executions",
			},
			[]string{"source", "procedure", "status"},
		),
		ProcedureDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filebridge_procedure_duration_seconds",
				Help:    "Procedure execution duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"source", "procedure"},
		),
		RowsReturned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filebridge_procedure_rows_total",
				Help: "Total rows returned by list procedures",
			},
			[]string{"source", "procedure"},
		),
	}
}

// RecordProcedure records one completed procedure execution.
func (m *Metrics) RecordProcedure(source, procedure, status string, rows int, duration time.Duration) {
	m.ProcedureCalls.WithLabelValues(source, procedure, status).Inc()
	m.ProcedureDuration.WithLabelValues(source, procedure).Observe(duration.Seconds())
	if rows > 0 {
		m.RowsReturned.WithLabelValues(source, procedure).Add(float64(rows))
	}
}

// Handler returns the scrape endpoint handler for this collector.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware instruments HTTP requests.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
