package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the server's Prometheus collectors. A nil *metrics records
// nothing.
type metrics struct {
	sessionsTotal  prometheus.Counter
	activeSessions prometheus.Gauge
	framesSent     *prometheus.CounterVec
	framesReceived *prometheus.CounterVec
	opsSent        prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, namespace string) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of WebSocket sessions started",
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active WebSocket sessions",
		}),

		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames sent to clients by type",
		}, []string{"type"}),

		framesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Frames received from clients by type",
		}, []string{"type"}),

		opsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_sent_total",
			Help:      "Surface ops sent to clients",
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "Total WebSocket errors by type",
		}, []string{"type"}),
	}
}

func (m *metrics) sessionStarted() {
	if m != nil {
		m.sessionsTotal.Inc()
		m.activeSessions.Inc()
	}
}

func (m *metrics) sessionEnded() {
	if m != nil {
		m.activeSessions.Dec()
	}
}

func (m *metrics) sent(frameType string, ops int) {
	if m != nil {
		m.framesSent.WithLabelValues(frameType).Inc()
		m.opsSent.Add(float64(ops))
	}
}

func (m *metrics) received(frameType string) {
	if m != nil {
		m.framesReceived.WithLabelValues(frameType).Inc()
	}
}

func (m *metrics) wsError(kind string) {
	if m != nil {
		m.wsErrors.WithLabelValues(kind).Inc()
	}
}
