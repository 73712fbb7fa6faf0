package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GrammarMetrics tracks grammar loading, file watching and report storage.
type GrammarMetrics struct {
	loadsTotal    *prometheus.CounterVec
	types         *prometheus.GaugeVec
	watchEvents   *prometheus.CounterVec
	reportsStored prometheus.Counter
	reportsPruned prometheus.Counter
}

// NewGrammarMetrics creates and registers grammar metrics with the provided registry.
func NewGrammarMetrics(namespace string, registry *prometheus.Registry) *GrammarMetrics {
	gm := &GrammarMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grammar_loads_total",
				Help:      "Total number of grammar loads by result",
			},
			[]string{"result"},
		),

		types: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "grammar_types",
				Help:      "Number of known type names in a loaded grammar",
			},
			[]string{"grammar"},
		),

		watchEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watch_events_total",
				Help:      "Total number of file events handled by watch",
			},
			[]string{"op"},
		),

		reportsStored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_stored_total",
				Help:      "Total number of check reports stored",
			},
		),

		reportsPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_pruned_total",
				Help:      "Total number of check reports removed by retention",
			},
		),
	}

	registry.MustRegister(
		gm.loadsTotal,
		gm.types,
		gm.watchEvents,
		gm.reportsStored,
		gm.reportsPruned,
	)

	return gm
}
