package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the chat server.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	ActiveSessions    prometheus.Gauge
	MessagesTotal     *prometheus.CounterVec
	CommandsTotal     *prometheus.CounterVec
	EventsTotal       *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. Callers that serve
// /metrics pass their exporter registry; tests pass a private one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hckrchat_active_connections",
			Help: "Currently open transport connections",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hckrchat_active_sessions",
			Help: "Currently joined sessions",
		}),
		MessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hckrchat_messages_total",
			Help: "Chat messages stored and broadcast",
		}, []string{"kind"}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hckrchat_commands_total",
			Help: "Slash commands executed",
		}, []string{"command"}),
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hckrchat_events_total",
			Help: "Outbound events emitted",
		}, []string{"event"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hckrchat_errors_total",
			Help: "Errors surfaced to clients",
		}, []string{"type"}),
	}
}
