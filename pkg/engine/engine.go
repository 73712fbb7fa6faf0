package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/arbor/pkg/grammar"
	"mercator-hq/arbor/pkg/grammar/ast"
	grammarErrors "mercator-hq/arbor/pkg/grammar/errors"
	"mercator-hq/arbor/pkg/grammar/loader"
	"mercator-hq/arbor/pkg/grammar/types"
	"mercator-hq/arbor/pkg/report"
	"mercator-hq/arbor/pkg/telemetry/logging"
	"mercator-hq/arbor/pkg/telemetry/metrics"
	"mercator-hq/arbor/pkg/telemetry/tracing"
)

// DefaultWriteTimeout bounds a single report write.
const DefaultWriteTimeout = 5 * time.Second

// errorKindInternal labels errors that are not grammar errors.
const errorKindInternal = "internal"

// Config configures an Engine. All fields are optional.
type Config struct {
	// Logger receives one entry per check. Default: logging.Nop().
	Logger *logging.Logger

	// Metrics counts checks. Nil disables metrics.
	Metrics *metrics.Collector

	// Tracer opens one span per check. Default: tracing.Nop().
	Tracer *tracing.Tracer

	// Store receives a report per check. Nil disables reports.
	Store report.Storage

	// RunID groups the checks of one invocation. Default: a new UUID.
	RunID string

	// WriteTimeout bounds each report write. Default: DefaultWriteTimeout.
	WriteTimeout time.Duration
}

// Result is the outcome of one check.
type Result struct {
	ID        string
	RunID     string
	Operation string
	Grammar   string
	Subject   string
	OK        bool
	Err       error
	Duration  time.Duration
	CreatedAt time.Time
}

// Record converts the result to a storable report.
func (r *Result) Record() *report.Record {
	rec := &report.Record{
		ID:        r.ID,
		RunID:     r.RunID,
		Operation: r.Operation,
		Grammar:   r.Grammar,
		Subject:   r.Subject,
		OK:        r.OK,
		Duration:  r.Duration,
		CreatedAt: r.CreatedAt,
	}
	if r.Err != nil {
		rec.ErrorKind = ErrorKind(r.Err)
		rec.Error = r.Err.Error()
	}
	return rec
}

// metricResult returns the metrics result label.
func (r *Result) metricResult() string {
	switch {
	case r.Err != nil:
		return metrics.ResultError
	case r.OK:
		return metrics.ResultOK
	default:
		return metrics.ResultFail
	}
}

// ErrorKind returns the grammar error kind carried by err, or "internal".
func ErrorKind(err error) string {
	var grammarErr *grammarErrors.Error
	if errors.As(err, &grammarErr) {
		return string(grammarErr.Kind)
	}
	return errorKindInternal
}

// Engine runs instrumented checks against a registry.
type Engine struct {
	mu       sync.RWMutex
	registry *types.Registry

	logger       *logging.Logger
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
	store        report.Storage
	runID        string
	writeTimeout time.Duration
	now          func() time.Time
}

// New creates an engine over reg. cfg may be nil.
func New(reg *types.Registry, cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}

	e := &Engine{
		registry:     reg,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		tracer:       cfg.Tracer,
		store:        cfg.Store,
		runID:        cfg.RunID,
		writeTimeout: cfg.WriteTimeout,
		now:          time.Now,
	}
	if e.logger == nil {
		e.logger = logging.Nop()
	}
	if e.tracer == nil {
		e.tracer = tracing.Nop()
	}
	if e.runID == "" {
		e.runID = uuid.New().String()
	}
	if e.writeTimeout <= 0 {
		e.writeTimeout = DefaultWriteTimeout
	}
	return e
}

// RunID returns the run identifier attached to every check.
func (e *Engine) RunID() string {
	return e.runID
}

// Registry returns the current registry.
func (e *Engine) Registry() *types.Registry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry
}

// SetRegistry replaces the registry used by subsequent checks.
func (e *Engine) SetRegistry(reg *types.Registry) {
	e.mu.Lock()
	e.registry = reg
	e.mu.Unlock()

	e.logger.Info("registry replaced", "grammar", reg.Name(), "types", len(reg.Names()))
}

// CheckSubtype reports whether a is a subtype of b.
func (e *Engine) CheckSubtype(ctx context.Context, a, b ast.Type) *Result {
	subject := fmt.Sprintf("%s <: %s", typeString(a), typeString(b))
	return e.run(ctx, report.OperationSubtype, subject, func(_ context.Context, reg *types.Registry) (bool, error) {
		return reg.IsSubtype(a, b)
	})
}

// ValidateTree reports whether node conforms to its declared type.
// subject names the tree in logs and reports, usually its file path.
func (e *Engine) ValidateTree(ctx context.Context, subject string, node *ast.Node) *Result {
	return e.run(ctx, report.OperationValidate, subject, func(ctx context.Context, reg *types.Registry) (bool, error) {
		if node != nil {
			e.recordTreeSize(ctx, ast.CountNodes(node))
		}
		return reg.IsTypeValid(node)
	})
}

// ValidateTreeFile loads the tree at path with l and validates it. Load
// failures are reported as a failed check carrying the loader error.
func (e *Engine) ValidateTreeFile(ctx context.Context, l *loader.Loader, path string) *Result {
	return e.run(ctx, report.OperationValidate, path, func(ctx context.Context, reg *types.Registry) (bool, error) {
		ok, node, err := grammar.ValidateTreeFileWith(l, reg, path)
		if node != nil {
			e.recordTreeSize(ctx, ast.CountNodes(node))
		}
		return ok, err
	})
}

func (e *Engine) run(ctx context.Context, operation, subject string, check func(context.Context, *types.Registry) (bool, error)) *Result {
	reg := e.Registry()

	result := &Result{
		ID:        uuid.New().String(),
		RunID:     e.runID,
		Operation: operation,
		Grammar:   reg.Name(),
		Subject:   subject,
	}

	ctx = logging.WithRunID(ctx, result.RunID)
	ctx = logging.WithGrammar(ctx, result.Grammar)
	ctx = logging.WithCheckID(ctx, result.ID)

	ctx, span := e.tracer.Start(ctx, "arbor."+operation, trace.WithAttributes(
		tracing.CheckAttributes(result.RunID, result.ID, operation, result.Grammar, subject)...,
	))
	defer span.End()

	start := e.now()
	result.OK, result.Err = check(ctx, reg)
	if result.Err != nil {
		result.OK = false
	}
	result.Duration = e.now().Sub(start)
	result.CreatedAt = e.now()

	errorKind := ""
	if result.Err != nil {
		errorKind = ErrorKind(result.Err)
	}
	tracing.SetResult(span, result.metricResult(), errorKind)
	tracing.SetError(span, result.Err)

	e.metrics.RecordCheck(operation, result.metricResult(), result.Duration)
	if result.Err != nil {
		e.metrics.RecordCheckError(ErrorKind(result.Err))
		e.logger.WarnContext(ctx, "check failed",
			"operation", operation,
			"subject", subject,
			"error", result.Err,
		)
	} else {
		e.logger.DebugContext(ctx, "check completed",
			"operation", operation,
			"subject", subject,
			"ok", result.OK,
			"duration", result.Duration,
		)
	}

	e.storeReport(ctx, result)
	return result
}

func (e *Engine) recordTreeSize(ctx context.Context, nodes int) {
	e.metrics.RecordTreeSize(nodes)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(tracing.AttrTreeNodes, nodes))
}

// storeReport writes the result to the store. Write failures are logged and
// do not affect the result.
func (e *Engine) storeReport(ctx context.Context, result *Result) {
	if e.store == nil {
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.writeTimeout)
	defer cancel()

	if err := e.store.Store(writeCtx, result.Record()); err != nil {
		e.logger.ErrorContext(ctx, "failed to store report", "error", err)
		return
	}
	e.metrics.RecordReportStored()
}

func typeString(t ast.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
