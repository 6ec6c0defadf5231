package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation outcomes
const (
	OutcomeSuccess        = "success"
	OutcomeMisrouted      = "misrouted"
	OutcomeSourceError    = "source_error"
	OutcomeTransferFailed = "transfer_failed"
	OutcomeInvalid        = "invalid_request"
	OutcomeStorageError   = "storage_error"
)

// MetricsCollector records introspection activity.
type MetricsCollector interface {
	RecordInvocation(operation, outcome string)
	RecordDuration(operation string, d time.Duration)
	RecordScores(suspicious, complexity uint8)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordInvocation(string, string)      {}
func (n *NoopMetricsCollector) RecordDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordScores(uint8, uint8)            {}

// PrometheusCollector exports MetricsCollector data as Prometheus metrics.
type PrometheusCollector struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	suspicion   prometheus.Histogram
	complexity  prometheus.Histogram
}

// NewPrometheusCollector creates the collector and registers it with reg.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "introspect",
			Subsystem: "engine",
			Name:      "invocations_total",
			Help:      "Introspection invocations by operation and outcome",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "introspect",
			Subsystem: "engine",
			Name:      "duration_seconds",
			Help:      "Duration of introspection operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"operation"}),
		suspicion: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "introspect",
			Subsystem: "engine",
			Name:      "suspicious_score",
			Help:      "Distribution of suspicion scores",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
		complexity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "introspect",
			Subsystem: "engine",
			Name:      "transaction_complexity",
			Help:      "Distribution of transaction complexity scores",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
		}),
	}

	for _, col := range []prometheus.Collector{c.invocations, c.duration, c.suspicion, c.complexity} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PrometheusCollector) RecordInvocation(operation, outcome string) {
	c.invocations.WithLabelValues(operation, outcome).Inc()
}

func (c *PrometheusCollector) RecordDuration(operation string, d time.Duration) {
	c.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordScores(suspicious, complexity uint8) {
	c.suspicion.Observe(float64(suspicious))
	c.complexity.Observe(float64(complexity))
}
