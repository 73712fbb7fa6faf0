// Package telemetry groups arbor's observability packages.
//
// # Components
//
//   - logging: structured slog logging with run, grammar and check IDs
//   - metrics: Prometheus counters and histograms for checks, grammar loads,
//     file events and report storage
//   - tracing: OpenTelemetry spans for each check
//   - health: liveness, readiness and version endpoints for arbor watch
//
// Each subpackage is used directly; there is no aggregate constructor.
package telemetry
