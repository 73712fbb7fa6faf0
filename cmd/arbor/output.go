package main

import (
	"fmt"
	"io"
	"time"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/engine"
	"mercator-hq/arbor/pkg/report"
)

// recordsTable renders check outcomes in every output format.
type recordsTable []*report.Record

func (t recordsTable) Header() []string {
	return []string{"TIME", "OPERATION", "GRAMMAR", "SUBJECT", "RESULT", "ERROR"}
}

func (t recordsTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = []string{
			r.CreatedAt.Format(time.RFC3339),
			r.Operation,
			r.Grammar,
			r.Subject,
			resultLabel(r),
			r.ErrorKind,
		}
	}
	return rows
}

func resultLabel(r *report.Record) string {
	switch {
	case r.Error != "":
		return "error"
	case r.OK:
		return "ok"
	default:
		return "fail"
	}
}

func toRecords(results []*engine.Result) recordsTable {
	records := make(recordsTable, len(results))
	for i, r := range results {
		records[i] = r.Record()
	}
	return records
}

// printResults writes results in the chosen format. Text output lists one
// line per check and the full error message under failures.
func printResults(w io.Writer, format cli.OutputFormat, results []*engine.Result) error {
	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(w, toRecords(results))
	}

	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "✗ %s\n  %v\n", r.Subject, r.Err)
		case r.OK:
			fmt.Fprintf(w, "✓ %s\n", r.Subject)
		default:
			fmt.Fprintf(w, "✗ %s\n", r.Subject)
		}
	}
	return nil
}

// summarize returns a CheckFailedError when any result did not pass.
func summarize(results []*engine.Result) error {
	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	if failed > 0 {
		return &cli.CheckFailedError{Failed: failed, Total: len(results)}
	}
	return nil
}
