package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the consent module.
type Metrics struct {
	// Consents granted by data type and purpose
	ConsentsGranted *prometheus.CounterVec

	// Consents revoked by data type and purpose
	ConsentsRevoked *prometheus.CounterVec

	// Use case outcomes by name and status
	UseCaseOutcome *prometheus.CounterVec

	// Store operation latency
	StoreLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all consent module metrics registered.
func New() *Metrics {
	return &Metrics{
		ConsentsGranted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_consent_granted_total",
			Help: "Total consents granted by data type and purpose",
		}, []string{"data_type", "purpose"}),

		ConsentsRevoked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_consent_revoked_total",
			Help: "Total consents revoked by data type and purpose",
		}, []string{"data_type", "purpose"}),

		UseCaseOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "exames_consent_usecase_outcomes_total",
			Help: "Total consent use case executions by name and status",
		}, []string{"usecase", "status"}),

		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exames_consent_store_duration_seconds",
			Help:    "Duration of consent store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation"}),
	}
}

// IncrementGranted records a granted consent.
func (m *Metrics) IncrementGranted(dataType, purpose string) {
	if m != nil {
		m.ConsentsGranted.WithLabelValues(dataType, purpose).Inc()
	}
}

// IncrementRevoked records a revoked consent.
func (m *Metrics) IncrementRevoked(dataType, purpose string) {
	if m != nil {
		m.ConsentsRevoked.WithLabelValues(dataType, purpose).Inc()
	}
}

// IncrementUseCaseOutcome records one use case execution result.
func (m *Metrics) IncrementUseCaseOutcome(usecase, status string) {
	if m != nil {
		m.UseCaseOutcome.WithLabelValues(usecase, status).Inc()
	}
}

// ObserveStoreLatency records a store operation duration.
func (m *Metrics) ObserveStoreLatency(operation string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
