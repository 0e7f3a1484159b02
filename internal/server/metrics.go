package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath serves the sync server's Prometheus metrics.
const MetricsPath = "/metrics"

// Ack results used as metric labels.
const (
	resultAck      = "ack"
	resultRejected = "rejected" // payload was not a JSON object
	resultFailed   = "failed"   // dispatch or storage failed
)

// syncMetrics are kept per server on a private registry so several servers
// can run in one process.
type syncMetrics struct {
	registry *prometheus.Registry

	messages    *prometheus.CounterVec
	fields      *prometheus.CounterVec
	malformed   *prometheus.CounterVec
	connections prometheus.Gauge
	dispatch    prometheus.Histogram
}

func newSyncMetrics() *syncMetrics {
	m := &syncMetrics{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watchface_sync_messages_total",
				Help: "Total number of settings messages received",
			},
			[]string{"result"},
		),
		fields: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watchface_sync_fields_applied_total",
				Help: "Settings fields applied from companion messages",
			},
			[]string{"field"},
		),
		malformed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watchface_sync_fields_malformed_total",
				Help: "Known settings fields skipped because the value was not an integer",
			},
			[]string{"field"},
		),
		connections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "watchface_sync_connections_current",
				Help: "Current number of companion connections",
			},
		),
		dispatch: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "watchface_sync_dispatch_seconds",
				Help:    "Time spent applying and storing a settings message",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.messages, m.fields, m.malformed, m.connections, m.dispatch)
	return m
}

func (m *syncMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *syncMetrics) observe(result string, applied, malformed []string) {
	m.messages.WithLabelValues(result).Inc()
	for _, f := range applied {
		m.fields.WithLabelValues(f).Inc()
	}
	for _, f := range malformed {
		m.malformed.WithLabelValues(f).Inc()
	}
}
