package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the event bus.
type Metrics struct {
	// Events accepted for delivery, by type
	EventsPublished *prometheus.CounterVec

	// Handler invocation outcomes by event type and status
	HandlerOutcome *prometheus.CounterVec

	// Full fan-out latency per publish call
	PublishLatency prometheus.Histogram
}

// New creates a Metrics instance with all event bus metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_eventbus_events_published_total",
			Help: "Total domain events accepted for delivery by type",
		}, []string{"event_type"}),

		HandlerOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_eventbus_handler_outcomes_total",
			Help: "Total handler invocations by event type and status",
		}, []string{"event_type", "status"}), // status: "success", "failure"

		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "exames_eventbus_publish_duration_seconds",
			Help:    "Duration of a full publish fan-out including all handlers",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementPublished records an event accepted for delivery.
func (m *Metrics) IncrementPublished(eventType string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(eventType).Inc()
	}
}

// IncrementHandlerOutcome records a single handler invocation result.
func (m *Metrics) IncrementHandlerOutcome(eventType, status string) {
	if m != nil {
		m.HandlerOutcome.WithLabelValues(eventType, status).Inc()
	}
}

// ObservePublishLatency records the duration of a publish fan-out.
func (m *Metrics) ObservePublishLatency(d time.Duration) {
	if m != nil {
		m.PublishLatency.Observe(d.Seconds())
	}
}
