/*
Package cli provides command-line helpers for the arbor command.

Output Formatting:

Command results are printed as text, JSON or CSV. Tabular results implement
Table so every format can render them:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, results); err != nil {
		return err
	}

Progress Reporting:

Validating many tree files can show pass and fail counts on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(files)))
	for _, f := range files {
		ok, err := check(f)
		progress.Record(cli.OutcomeOf(ok, err))
	}
	progress.Finish()

Signal Handling:

Long-running commands stop on SIGINT or SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
