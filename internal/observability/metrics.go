// Package observability wires Prometheus instrumentation for a tool server.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the per-server instruments. Each server process owns its own
// registry so vendor adapters never share collector state.
type Metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a metrics set for the named server.
func New(server string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "toolgate",
			Name:        "tool_calls_total",
			Help:        "Tool calls by tool name and outcome.",
			ConstLabels: prometheus.Labels{"server": server},
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "toolgate",
			Name:        "tool_call_duration_seconds",
			Help:        "Tool call latency, including vendor round trips.",
			ConstLabels: prometheus.Labels{"server": server},
			Buckets:     prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	registry.MustRegister(m.calls, m.duration)
	return m
}

// ObserveCall records one completed tool call. Outcome is "success" or the
// failure kind.
func (m *Metrics) ObserveCall(toolName, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(toolName, outcome).Inc()
	m.duration.WithLabelValues(toolName).Observe(elapsed.Seconds())
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
