package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/config"
	"mercator-hq/arbor/pkg/grammar/loader"
	"mercator-hq/arbor/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
)

// Exit codes.
const (
	exitFailed      = 1 // a check ran and did not pass, or a command failed
	exitConfigError = 2
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor - structural type checker for tree grammars",
	Long: `Arbor loads declarative tree grammars and checks types and trees against them.

A grammar declares union hierarchies and composite types built from primitive
shapes. Arbor answers two questions:
  - is type A a subtype of type B
  - does an annotated tree conform to its declared type

Check outcomes can be recorded to a report store and exported as Prometheus metrics.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, text, console)")
}

// app holds the state built once per invocation by setup.
var app struct {
	cfg    *config.Config
	logger *logging.Logger
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}

	app.cfg = cfg
	app.logger = logger
	logging.SetDefault(logger)
	return nil
}

// newLoader returns a loader configured from the loader section.
func newLoader() *loader.Loader {
	l := loader.New()
	if app.cfg.Loader.MaxFileSize > 0 {
		l = l.WithMaxFileSize(app.cfg.Loader.MaxFileSize)
	}
	if app.cfg.Loader.MaxDepth > 0 {
		l = l.WithMaxDepth(app.cfg.Loader.MaxDepth)
	}
	return l
}

func exitCode(err error) int {
	var cfgErr *cli.ConfigError
	if errors.As(err, &cfgErr) {
		return exitConfigError
	}
	return exitFailed
}
