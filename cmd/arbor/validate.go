package main

import (
	"context"

	"github.com/spf13/cobra"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/engine"
	"mercator-hq/arbor/pkg/watch"
)

var validateFlags struct {
	grammar  string
	format   string
	progress bool
}

var validateCmd = &cobra.Command{
	Use:   "validate <tree>...",
	Short: "Validate tree files against a grammar",
	Long: `Validate tree files against a grammar.

Each argument is a tree file or a directory searched recursively for files
with the configured watch extensions. Every tree must conform to its declared
root type; nested nodes are checked against their own declared types.

The command exits with status 1 when any tree fails.

Examples:
  # Validate one tree
  arbor validate --grammar grammars/lang.yaml trees/program.yaml

  # Validate a directory, CSV report
  arbor validate --grammar grammars/lang.yaml trees/ --format csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateTrees,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.grammar, "grammar", "g", "", "grammar file (required)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, csv")
	validateCmd.Flags().BoolVar(&validateFlags.progress, "progress", false, "show a progress bar on stderr")
	_ = validateCmd.MarkFlagRequired("grammar")
}

func validateTrees(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(validateFlags.format)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	s, err := openSession("validate", validateFlags.grammar)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := runValidation(cmd.Context(), cmd, s, args)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	if err := printResults(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}
	return summarize(results)
}

func runValidation(ctx context.Context, cmd *cobra.Command, s *session, paths []string) ([]*engine.Result, error) {
	var results []*engine.Result
	var progress cli.ProgressReporter

	ws := &watch.Session{
		Engine:      s.engine,
		Loader:      newLoader(),
		GrammarPath: validateFlags.grammar,
		TreePaths:   paths,
		Extensions:  app.cfg.Watch.Extensions,
		Metrics:     s.metrics,
		Report: func(r *engine.Result) {
			results = append(results, r)
			if progress != nil {
				progress.Record(cli.OutcomeOf(r.OK, r.Err))
			}
		},
	}

	if validateFlags.progress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		total, err := ws.Count()
		if err != nil {
			return nil, err
		}
		progress.Start(int64(total))
		defer progress.Finish()
	}

	if _, err := ws.CheckAll(ctx); err != nil {
		if progress != nil {
			progress.Error(err)
		}
		return nil, err
	}
	return results, nil
}
