// Package logging provides structured logging for arbor.
//
// The package wraps log/slog with JSON, text and console formats, leveled
// helpers and context fields. Context fields (run_id, grammar, check_id) are
// attached to every record logged with a context that carries them, including
// records logged through the *slog.Logger returned by Slog.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "tree validated", "file", path)
package logging
