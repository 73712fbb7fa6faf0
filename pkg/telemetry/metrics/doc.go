// Package metrics provides Prometheus metrics for arbor.
//
// # Metrics
//
//   - arbor_checks_total{operation,result}: subtype and validation checks by outcome
//   - arbor_check_duration_seconds{operation}: check latency
//   - arbor_check_errors_total{kind}: checks that failed with a typed error
//   - arbor_tree_nodes: size of validated trees
//   - arbor_grammar_loads_total{result}: grammar loads
//   - arbor_grammar_types{grammar}: known type names per loaded grammar
//   - arbor_watch_events_total{op}: file change events handled by watch
//   - arbor_reports_stored_total / arbor_reports_pruned_total: report store activity
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Metrics, prometheus.NewRegistry())
//	collector.RecordCheck("validate", "ok", 3*time.Millisecond)
//	http.Handle(cfg.Metrics.Path, collector.Handler())
//
// Each Collector owns its registry, so tests can create as many as they need.
package metrics
