package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the ID of a CLI or watch run.
	RunIDKey contextKey = "run_id"

	// GrammarKey is the context key for the grammar name.
	GrammarKey contextKey = "grammar"

	// CheckIDKey is the context key for the ID of a single check.
	CheckIDKey contextKey = "check_id"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithGrammar adds a grammar name to the context.
func WithGrammar(ctx context.Context, grammar string) context.Context {
	return context.WithValue(ctx, GrammarKey, grammar)
}

// GetGrammar retrieves the grammar name from the context.
func GetGrammar(ctx context.Context) string {
	if grammar, ok := ctx.Value(GrammarKey).(string); ok {
		return grammar
	}
	return ""
}

// WithCheckID adds a check ID to the context.
func WithCheckID(ctx context.Context, checkID string) context.Context {
	return context.WithValue(ctx, CheckIDKey, checkID)
}

// GetCheckID retrieves the check ID from the context.
func GetCheckID(ctx context.Context) string {
	if checkID, ok := ctx.Value(CheckIDKey).(string); ok {
		return checkID
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if grammar := GetGrammar(ctx); grammar != "" {
		fields = append(fields, string(GrammarKey), grammar)
	}
	if checkID := GetCheckID(ctx); checkID != "" {
		fields = append(fields, string(CheckIDKey), checkID)
	}
	return fields
}
