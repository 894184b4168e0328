// Package metrics exports Prometheus instrumentation for the HTTP
// transport.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the transport collectors on a private registry so tests can
// run side by side without duplicate registration panics.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	scaffoldSize prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loom_tool_calls_total",
			Help: "Total tool calls by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loom_tool_call_duration_seconds",
			Help:    "Tool call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		scaffoldSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loom_scaffold_files",
			Help:    "Number of files per generated scaffold.",
			Buckets: []float64{5, 10, 20, 40, 80, 160},
		}),
	}

	m.registry.MustRegister(
		m.toolCalls,
		m.toolDuration,
		m.scaffoldSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveToolCall records one tool invocation.
func (m *Metrics) ObserveToolCall(tool string, failed bool, duration time.Duration) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveScaffoldSize records the file count of one generated scaffold.
func (m *Metrics) ObserveScaffoldSize(files int) {
	m.scaffoldSize.Observe(float64(files))
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
