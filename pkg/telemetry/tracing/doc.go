// Package tracing provides OpenTelemetry spans for arbor checks.
//
// # Overview
//
// Every subtype or validate check run by the engine opens one span named
// after its operation ("arbor.subtype", "arbor.validate"). Spans carry the
// run ID, check ID, grammar and subject, and are marked as errors when the
// check could not be decided.
//
// # Configuration
//
//	tracing:
//	  enabled: true
//	  service_name: arbor
//	  sampler: ratio          # always, never, ratio
//	  sample_ratio: 0.1
//	  endpoint: localhost:4317
//	  insecure: true
//	  timeout: 10s
//
// Spans are exported with OTLP over gRPC. When tracing is disabled, Start
// returns no-op spans.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "arbor.subtype")
//	defer span.End()
package tracing
