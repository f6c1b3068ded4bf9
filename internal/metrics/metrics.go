// Package metrics holds the Prometheus collectors for the relay and the chat
// backend. Each Metrics owns its registry so tests can build isolated copies.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Relay outcomes, used as the "outcome" label.
const (
	OutcomeRelayed      = "relayed"
	OutcomeBadMethod    = "method_not_allowed"
	OutcomeBadRequest   = "bad_request"
	OutcomeMisconfig    = "misconfigured"
	OutcomeUpstreamFail = "upstream_error"
)

type Metrics struct {
	RelayRequests    *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	UpstreamBodies   *prometheus.CounterVec
	ChatMessages     prometheus.Counter
	HistoryClears    prometheus.Counter

	registry *prometheus.Registry
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		RelayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_requests_total",
				Help: "Requests to /api/gemini by outcome",
			},
			[]string{"outcome"},
		),
		UpstreamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "relay_upstream_duration_seconds",
				Help:    "Round-trip time of the outbound upstream call",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		UpstreamBodies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_upstream_bodies_total",
				Help: "Upstream response bodies by kind (json or text)",
			},
			[]string{"kind"},
		),
		ChatMessages: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_messages_total",
				Help: "Messages answered by the chat backend",
			},
		),
		HistoryClears: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_history_clears_total",
				Help: "Times the conversation history was cleared",
			},
		),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
