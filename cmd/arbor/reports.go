package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/report"
	"mercator-hq/arbor/pkg/report/retention"
	"mercator-hq/arbor/pkg/report/storage"
	"mercator-hq/arbor/pkg/telemetry/metrics"
)

var reportsFlags struct {
	runID     string
	operation string
	grammar   string
	failed    bool
	since     time.Duration
	limit     int
	offset    int
	format    string
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect and prune stored check reports",
	Long: `Inspect and prune the check reports recorded by subtype, validate and watch.

Reports are stored only when reports.backend is "sqlite" (or "memory", which
lasts for a single process).

Subcommands:
  list   - List reports with filters
  prune  - Apply the retention limits now`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	Long: `List stored check reports, newest first.

Examples:
  # Failures from the last day
  arbor reports list --failed --since 24h

  # Everything from one run as CSV
  arbor reports list --run-id 6f1c... --format csv`,
	RunE: listReports,
}

var reportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reports beyond the retention limits",
	Long: `Delete reports older than reports.retention.days and the oldest reports
beyond reports.retention.max_records.`,
	RunE: pruneReports,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsPruneCmd)

	reportsListCmd.Flags().StringVar(&reportsFlags.runID, "run-id", "", "filter by run ID")
	reportsListCmd.Flags().StringVar(&reportsFlags.operation, "operation", "", "filter by operation: subtype, validate")
	reportsListCmd.Flags().StringVar(&reportsFlags.grammar, "grammar", "", "filter by grammar name")
	reportsListCmd.Flags().BoolVar(&reportsFlags.failed, "failed", false, "only reports that did not pass")
	reportsListCmd.Flags().DurationVar(&reportsFlags.since, "since", 0, "only reports newer than this duration")
	reportsListCmd.Flags().IntVar(&reportsFlags.limit, "limit", 100, "maximum number of reports")
	reportsListCmd.Flags().IntVar(&reportsFlags.offset, "offset", 0, "skip this many reports")
	reportsListCmd.Flags().StringVar(&reportsFlags.format, "format", "text", "output format: text, json, csv")
}

func openReportStore(command string) (report.Storage, error) {
	store, err := storage.New(&app.cfg.Reports)
	if err != nil {
		return nil, cli.NewCommandError(command, err)
	}
	if store == nil {
		return nil, cli.NewConfigError("reports.backend", "no report store configured (backend is \"none\")")
	}
	return store, nil
}

func listReports(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(reportsFlags.format)
	if err != nil {
		return cli.NewCommandError("reports list", err)
	}

	store, err := openReportStore("reports list")
	if err != nil {
		return err
	}
	defer store.Close()

	query := &report.Query{
		RunID:     reportsFlags.runID,
		Operation: reportsFlags.operation,
		Grammar:   reportsFlags.grammar,
		Limit:     reportsFlags.limit,
		Offset:    reportsFlags.offset,
	}
	if reportsFlags.failed {
		notOK := false
		query.OK = &notOK
	}
	if reportsFlags.since > 0 {
		start := time.Now().Add(-reportsFlags.since)
		query.StartTime = &start
	}

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("reports list", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatText && len(records) == 0 {
		fmt.Fprintln(out, "No reports found.")
		return nil
	}
	return cli.NewFormatter(format).FormatTo(out, recordsTable(records))
}

func pruneReports(cmd *cobra.Command, args []string) error {
	store, err := openReportStore("reports prune")
	if err != nil {
		return err
	}
	defer store.Close()

	pruner := retention.NewPruner(store, app.cfg.Reports.Retention, metrics.NewCollector(&app.cfg.Metrics, nil))
	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("reports prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d report(s)\n", deleted)
	return nil
}
