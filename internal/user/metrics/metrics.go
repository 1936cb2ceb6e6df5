package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the user module.
type Metrics struct {
	// Use case outcomes by name and status
	UseCaseOutcome *prometheus.CounterVec

	// Use case latency by name
	UseCaseLatency *prometheus.HistogramVec

	// Store operation latency
	StoreLatency *prometheus.HistogramVec

	// Store operation outcomes
	StoreOutcome *prometheus.CounterVec
}

// New creates a Metrics instance with all user module metrics registered.
func New() *Metrics {
	return &Metrics{
		UseCaseOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_user_usecase_outcomes_total",
			Help: "Total user use case executions by name and status",
		}, []string{"usecase", "status"}),

		UseCaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exames_user_usecase_duration_seconds",
			Help:    "Duration of user use case executions",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"usecase"}),

		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exames_user_store_duration_seconds",
			Help:    "Duration of user store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation"}),

		StoreOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_user_store_outcomes_total",
			Help: "Total user store operations by name and status",
		}, []string{"operation", "status"}),
	}
}

// IncrementUseCaseOutcome records one use case execution result.
func (m *Metrics) IncrementUseCaseOutcome(usecase, status string) {
	if m != nil {
		m.UseCaseOutcome.WithLabelValues(usecase, status).Inc()
	}
}

// ObserveUseCaseLatency records a use case duration.
func (m *Metrics) ObserveUseCaseLatency(usecase string, d time.Duration) {
	if m != nil {
		m.UseCaseLatency.WithLabelValues(usecase).Observe(d.Seconds())
	}
}

// ObserveStore records one store operation: duration plus outcome.
func (m *Metrics) ObserveStore(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StoreLatency.WithLabelValues(operation).Observe(d.Seconds())
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StoreOutcome.WithLabelValues(operation, status).Inc()
}
