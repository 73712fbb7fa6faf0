package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrRunID        = "arbor.run_id"
	AttrCheckID      = "arbor.check_id"
	AttrOperation    = "arbor.operation"
	AttrGrammar      = "arbor.grammar"
	AttrSubject      = "arbor.subject"
	AttrResult       = "arbor.result"
	AttrErrorKind    = "arbor.error.kind"
	AttrTreeNodes    = "arbor.tree.nodes"
	AttrErrorMessage = "error.message"
)

// CheckAttributes returns the attributes that identify a check.
func CheckAttributes(runID, checkID, operation, grammar, subject string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrCheckID, checkID),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrGrammar, grammar),
		attribute.String(AttrSubject, subject),
	}
}

// SetResult records the outcome label of a check and, for errors, its kind.
func SetResult(span trace.Span, result, errorKind string) {
	span.SetAttributes(attribute.String(AttrResult, result))
	if errorKind != "" {
		span.SetAttributes(attribute.String(AttrErrorKind, errorKind))
	}
}
