package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics.
const (
	MetricTransactionPosted   = "transaction.posted"
	MetricTransfer            = "transfers_total"
	MetricBudgetEntry         = "budget.entry"
	MetricClassifierRequest   = "classifier.request"
	MetricCircuitBreakerState = "circuit_breaker.state"
	MetricTransferDuration    = "transfer_duration"
	MetricDashboardDuration   = "dashboard_build"
)

type PrometheusMetrics struct {
	postingsTotal       *prometheus.CounterVec
	transfersTotal      *prometheus.CounterVec
	transferDuration    prometheus.Histogram
	budgetEntriesTotal  *prometheus.CounterVec
	classifierRequests  *prometheus.CounterVec
	circuitBreakerState *prometheus.GaugeVec
	dashboardDuration   prometheus.Histogram
}

// NewPrometheusMetrics registers the ledger metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() so registrations do not collide.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		postingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_postings_total",
				Help: "Total number of transaction postings by kind and status",
			},
			[]string{"kind", "status"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Total number of transfers by status",
			},
			[]string{"status"},
		),
		transferDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_transfer_duration_milliseconds",
				Help:    "Transfer posting duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		budgetEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_budget_entries_total",
				Help: "Budget entries processed by save requests",
			},
			[]string{"outcome"},
		),
		classifierRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_requests_total",
				Help: "Category suggestion requests by outcome",
			},
			[]string{"outcome"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		dashboardDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_build_duration_seconds",
				Help:    "Dashboard snapshot build duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	status := tags["status"]

	switch name {
	case MetricTransactionPosted:
		m.postingsTotal.WithLabelValues(tags["kind"], status).Inc()
	case MetricTransfer:
		if status != "" {
			m.transfersTotal.WithLabelValues(status).Inc()
		}
	case MetricBudgetEntry:
		if outcome := tags["outcome"]; outcome != "" {
			m.budgetEntriesTotal.WithLabelValues(outcome).Inc()
		}
	case MetricClassifierRequest:
		if outcome := tags["outcome"]; outcome != "" {
			m.classifierRequests.WithLabelValues(outcome).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricTransferDuration:
		m.transferDuration.Observe(float64(duration.Milliseconds()))
	case MetricDashboardDuration:
		m.dashboardDuration.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	if name == MetricCircuitBreakerState {
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}
