package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/engine"
	"mercator-hq/arbor/pkg/report"
	"mercator-hq/arbor/pkg/report/retention"
	"mercator-hq/arbor/pkg/telemetry/health"
	"mercator-hq/arbor/pkg/watch"
)

var watchFlags struct {
	grammar string
}

var watchCmd = &cobra.Command{
	Use:   "watch <tree>...",
	Short: "Re-validate trees whenever they or the grammar change",
	Long: `Validate trees, then keep watching them and the grammar file.

A change to the grammar reloads it and re-validates every tree; a grammar
that fails to load leaves the previous one in effect. A change to a tree
re-validates that tree only.

When metrics.listen_address is set, Prometheus metrics are served there along
with /health, /ready and /version. Readiness fails while the grammar file
does not load.
When a report store is configured, the retention schedule prunes it.

Examples:
  arbor watch --grammar grammars/lang.yaml trees/

  # Serve metrics on :9090
  ARBOR_METRICS_LISTEN_ADDRESS=:9090 arbor watch --grammar grammars/lang.yaml trees/`,
	Args: cobra.MinimumNArgs(1),
	RunE: watchTrees,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.grammar, "grammar", "g", "", "grammar file (required)")
	_ = watchCmd.MarkFlagRequired("grammar")
}

func watchTrees(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	s, err := openSession("watch", watchFlags.grammar)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	ws := &watch.Session{
		Engine:      s.engine,
		Loader:      newLoader(),
		GrammarPath: watchFlags.grammar,
		TreePaths:   args,
		Extensions:  app.cfg.Watch.Extensions,
		Metrics:     s.metrics,
		Logger:      app.logger.Slog(),
		Report: func(r *engine.Result) {
			_ = printResults(out, cli.FormatText, []*engine.Result{r})
		},
	}

	failed, err := ws.CheckAll(ctx)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	fmt.Fprintf(out, "%d tree(s) failing; watching for changes (Ctrl+C to stop)\n", failed)

	checker := health.New(0)
	checker.RegisterCheck("grammar", ws.GrammarHealth)
	if s.store != nil {
		checker.RegisterCheck("reports", func(ctx context.Context) error {
			_, err := s.store.Count(ctx, &report.Query{Limit: 1})
			return err
		})
	}
	serveHTTP(ctx, s.metrics, checker)

	if s.store != nil {
		pruner := retention.NewPruner(s.store, app.cfg.Reports.Retention, s.metrics)
		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer pruner.Stop()
	}

	watcher, err := watch.NewFileWatcher(watch.Config{
		Paths:      append([]string{watchFlags.grammar}, args...),
		Debounce:   app.cfg.Watch.Debounce,
		Extensions: app.cfg.Watch.Extensions,
		SkipHidden: true,
		Metrics:    s.metrics,
	}, app.logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Close()

	return watcher.Watch(ctx, func(changed []string) error {
		return ws.HandleChange(ctx, changed)
	})
}
