package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckMetrics tracks subtype and validation checks.
type CheckMetrics struct {
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	treeNodes     prometheus.Histogram
}

// NewCheckMetrics creates and registers check metrics with the provided registry.
func NewCheckMetrics(namespace string, registry *prometheus.Registry) *CheckMetrics {
	cm := &CheckMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Total number of checks by operation and result",
			},
			[]string{"operation", "result"},
		),

		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "Duration of checks in seconds",
				// Checks are in-memory walks; 1µs to ~1s
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 11),
			},
			[]string{"operation"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "check_errors_total",
				Help:      "Total number of checks that failed with an error, by error kind",
			},
			[]string{"kind"},
		),

		treeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tree_nodes",
				Help:      "Number of nodes in validated trees",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}

	registry.MustRegister(
		cm.checksTotal,
		cm.checkDuration,
		cm.errorsTotal,
		cm.treeNodes,
	)

	return cm
}

// RecordCheck records one finished check.
func (cm *CheckMetrics) RecordCheck(operation, result string, duration time.Duration) {
	cm.checksTotal.WithLabelValues(operation, result).Inc()
	cm.checkDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordError records a check error of the given kind.
func (cm *CheckMetrics) RecordError(kind string) {
	cm.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTreeSize records the node count of a validated tree.
func (cm *CheckMetrics) RecordTreeSize(nodes int) {
	cm.treeNodes.Observe(float64(nodes))
}
