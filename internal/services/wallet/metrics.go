package wallet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordOperationDuration(operation string, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64)             {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}

// PrometheusCollector exposes wallet metrics via the default Prometheus
// registry. Construct it once per process.
type PrometheusCollector struct {
	transactions *prometheus.CounterVec
	volume       *prometheus.CounterVec
	errors       *prometheus.CounterVec
	durations    *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		transactions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultpay_transactions_total",
				Help: "Total number of completed transactions",
			},
			[]string{"type"},
		),
		volume: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultpay_transaction_volume",
				Help: "Total transaction volume by type",
			},
			[]string{"type"},
		),
		errors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultpay_wallet_errors_total",
				Help: "Total number of failed wallet operations",
			},
			[]string{"operation", "error"},
		),
		durations: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaultpay_wallet_operation_duration_seconds",
				Help:    "Wallet operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (c *PrometheusCollector) RecordTransaction(txType string, amount float64) {
	c.transactions.WithLabelValues(txType).Inc()
	c.volume.WithLabelValues(txType).Add(amount)
}

func (c *PrometheusCollector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

func (c *PrometheusCollector) RecordOperationDuration(operation string, duration time.Duration) {
	c.durations.WithLabelValues(operation).Observe(duration.Seconds())
}
