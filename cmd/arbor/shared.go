package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/engine"
	"mercator-hq/arbor/pkg/grammar"
	"mercator-hq/arbor/pkg/grammar/ast"
	"mercator-hq/arbor/pkg/grammar/namespace"
	"mercator-hq/arbor/pkg/grammar/types"
	"mercator-hq/arbor/pkg/report"
	"mercator-hq/arbor/pkg/report/storage"
	"mercator-hq/arbor/pkg/telemetry/health"
	"mercator-hq/arbor/pkg/telemetry/metrics"
	"mercator-hq/arbor/pkg/telemetry/tracing"
)

// session bundles what a checking command needs.
type session struct {
	registry *types.Registry
	engine   *engine.Engine
	store    report.Storage
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
}

// openSession loads the grammar and builds an engine wired to the configured
// report store, tracer and a metrics collector.
func openSession(command, grammarPath string) (*session, error) {
	if grammarPath == "" {
		return nil, cli.NewCommandError(command, fmt.Errorf("--grammar is required"))
	}

	collector := metrics.NewCollector(&app.cfg.Metrics, nil)

	reg, err := grammar.LoadRegistryWith(newLoader(), grammarPath)
	if err != nil {
		collector.RecordGrammarLoad("", err, 0)
		return nil, cli.NewCommandError(command, err)
	}
	collector.RecordGrammarLoad(reg.Name(), nil, len(reg.Names()))

	store, err := storage.New(&app.cfg.Reports)
	if err != nil {
		return nil, cli.NewCommandError(command, fmt.Errorf("failed to open report store: %w", err))
	}

	tracer, err := tracing.New(&app.cfg.Tracing)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, cli.NewConfigError("tracing", err.Error())
	}

	return &session{
		registry: reg,
		store:    store,
		metrics:  collector,
		tracer:   tracer,
		engine: engine.New(reg, &engine.Config{
			Logger:  app.logger,
			Metrics: collector,
			Tracer:  tracer,
			Store:   store,
		}),
	}, nil
}

func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tracer.Shutdown(ctx); err != nil {
		app.logger.Warn("failed to flush spans", "error", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			app.logger.Warn("failed to close report store", "error", err)
		}
	}
}

// parseTypeArg parses a command-line type: a name or a YAML flow mapping such
// as "{type: primitive.List, parameters: [Expression]}". Bare names are
// qualified with the grammar namespace.
func parseTypeArg(reg *types.Registry, arg string) (ast.Type, error) {
	t, err := newLoader().ParseType([]byte(arg), "<argument>")
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", arg, err)
	}
	return namespace.Type(reg.Name(), t), nil
}

// serveHTTP serves metrics and the health endpoints on the configured
// address until ctx is cancelled. It does nothing when no address is configured.
func serveHTTP(ctx context.Context, collector *metrics.Collector, checker *health.Checker) {
	addr := app.cfg.Metrics.ListenAddress
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle(app.cfg.Metrics.Path, collector.Handler())
	health.Register(mux, checker, Version, GitCommit, BuildDate)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		app.logger.Info("serving metrics and health", "address", addr, "path", app.cfg.Metrics.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
