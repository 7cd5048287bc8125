package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakbarn/farmstand/pkg/logger"
)

// Monitor is the telemetry capability handed to every component at
// construction. Calls are fire-and-forget and never return errors; a broken
// metrics backend must not alter control flow.
type Monitor interface {
	RecordPatternSuccess(name string)
	RecordFailure(operation string, err error)
	RecordValidationError(context string, err error)
	RecordAnomaly(kind string)
}

// PrometheusMonitor backs the Monitor capability with Prometheus counters.
type PrometheusMonitor struct {
	patternSuccess   *prometheus.CounterVec
	failures         *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	anomalies        *prometheus.CounterVec
}

// NewPrometheusMonitor creates and registers the monitor counters.
func NewPrometheusMonitor() *PrometheusMonitor {
	m := &PrometheusMonitor{
		patternSuccess: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_pattern_success_total",
				Help: "Successful executions per operation pattern",
			},
			[]string{"pattern"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_failures_total",
				Help: "Failed operations by name",
			},
			[]string{"operation"},
		),
		validationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_validation_errors_total",
				Help: "Rejected inputs per boundary",
			},
			[]string{"boundary"},
		),
		anomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_anomalies_total",
				Help: "Correctness anomalies requiring reconciliation",
			},
			[]string{"kind"},
		),
	}

	prometheus.MustRegister(m.patternSuccess)
	prometheus.MustRegister(m.failures)
	prometheus.MustRegister(m.validationErrors)
	prometheus.MustRegister(m.anomalies)

	return m
}

func (m *PrometheusMonitor) RecordPatternSuccess(name string) {
	m.patternSuccess.WithLabelValues(name).Inc()
}

func (m *PrometheusMonitor) RecordFailure(operation string, err error) {
	m.failures.WithLabelValues(operation).Inc()
	logger.Logger.Warn().
		Err(err).
		Str("operation", operation).
		Msg("Operation failed")
}

func (m *PrometheusMonitor) RecordValidationError(context string, err error) {
	m.validationErrors.WithLabelValues(context).Inc()
	logger.Logger.Debug().
		Err(err).
		Str("boundary", context).
		Msg("Input rejected")
}

func (m *PrometheusMonitor) RecordAnomaly(kind string) {
	m.anomalies.WithLabelValues(kind).Inc()
	logger.Logger.Error().
		Str("kind", kind).
		Msg("Correctness anomaly recorded")
}

// NopMonitor discards all telemetry. Used in tests.
type NopMonitor struct{}

func (NopMonitor) RecordPatternSuccess(name string)                {}
func (NopMonitor) RecordFailure(operation string, err error)       {}
func (NopMonitor) RecordValidationError(context string, err error) {}
func (NopMonitor) RecordAnomaly(kind string)                       {}
