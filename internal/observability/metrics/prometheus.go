// Package metrics provides Prometheus metrics for the extraction engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	NotesReceived         prometheus.Counter
	NotesDuplicate        prometheus.Counter
	ExtractionsTotal      *prometheus.CounterVec
	ExtractionDuration    prometheus.Histogram
	KafkaMessagesProduced prometheus.Counter
	KafkaMessagesConsumed prometheus.Counter
	OutboxPending         prometheus.Gauge
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		NotesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notes_received_total",
			Help: "Total physician notes received",
		}),
		NotesDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notes_duplicate_total",
			Help: "Total duplicate note submissions rejected by the inbox",
		}),
		ExtractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractions_total",
			Help: "Total extractions by detected device type",
		}, []string{"device"}),
		ExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Note extraction duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
		}),
		KafkaMessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_produced_total",
			Help: "Total Kafka messages produced",
		}),
		KafkaMessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outbox_pending_entries",
			Help: "Pending outbox entries",
		}),
	}

	prometheus.MustRegister(
		m.NotesReceived,
		m.NotesDuplicate,
		m.ExtractionsTotal,
		m.ExtractionDuration,
		m.KafkaMessagesProduced,
		m.KafkaMessagesConsumed,
		m.OutboxPending,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
