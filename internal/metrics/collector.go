// Package metrics records tool invocations and HTTP traffic as Prometheus
// metrics on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invocation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector holds the server's metric vectors. A nil *Collector is valid
// and records nothing.
type Collector struct {
	registry *prometheus.Registry

	toolInvocationsTotal   *prometheus.CounterVec
	toolInvocationDuration *prometheus.HistogramVec
	toolsRegistered        *prometheus.GaugeVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a collector registering under namespace. serviceName
// is attached to every series as the constant label "service" when set.
func NewCollector(namespace, serviceName string, logger *common.Logger) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var constLabels prometheus.Labels
	if serviceName != "" {
		constLabels = prometheus.Labels{"service": serviceName}
	}
	factory := promauto.With(reg)

	c := &Collector{registry: reg}

	c.toolInvocationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "tool_invocations_total",
			Help:        "Total number of tool invocations",
			ConstLabels: constLabels,
		},
		[]string{"tool", "outcome"},
	)

	c.toolInvocationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "tool_invocation_duration_seconds",
			Help:        "Tool invocation duration in seconds",
			Buckets:     []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			ConstLabels: constLabels,
		},
		[]string{"tool"},
	)

	c.toolsRegistered = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "tools_registered",
			Help:        "Number of registered tools by source",
			ConstLabels: constLabels,
		},
		[]string{"source"},
	)

	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"method", "path"},
	)

	if logger != nil {
		logger.Debug().Str("namespace", namespace).Msg("metrics collector initialized")
	}
	return c
}

// RecordToolInvocation records one tool call and its duration.
func (c *Collector) RecordToolInvocation(tool string, failed bool, duration time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if failed {
		outcome = OutcomeError
	}
	c.toolInvocationsTotal.WithLabelValues(tool, outcome).Inc()
	c.toolInvocationDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// IncToolsRegistered bumps the registered tool gauge for source.
func (c *Collector) IncToolsRegistered(source string) {
	if c == nil {
		return
	}
	c.toolsRegistered.WithLabelValues(source).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Registry returns the private registry, or nil for a nil collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// statusCode buckets an HTTP status into its class label.
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return strconv.Itoa(code)
	}
}
