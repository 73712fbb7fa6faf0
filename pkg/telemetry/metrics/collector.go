package metrics

import (
	"sync"
	"time"

	"mercator-hq/arbor/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for checks.
const (
	ResultOK    = "ok"
	ResultFail  = "fail"
	ResultError = "error"
)

// Collector records all arbor metrics into one Prometheus registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	checkMetrics   *CheckMetrics
	grammarMetrics *GrammarMetrics

	// Grammar names are user input; cap the label values.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector. If registry is nil a fresh registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{}
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		checkMetrics:       NewCheckMetrics(namespace, registry),
		grammarMetrics:     NewGrammarMetrics(namespace, registry),
		cardinalityLimiter: NewCardinalityLimiter(100),
	}
}

// RecordCheck records a finished check.
//
// Parameters:
//   - operation: "subtype" or "validate"
//   - result: ResultOK, ResultFail or ResultError
//   - duration: time spent in the check
func (c *Collector) RecordCheck(operation, result string, duration time.Duration) {
	if c == nil {
		return
	}
	c.checkMetrics.RecordCheck(operation, result, duration)
}

// RecordCheckError records a check that failed with an error of the given kind.
func (c *Collector) RecordCheckError(kind string) {
	if c == nil {
		return
	}
	c.checkMetrics.RecordError(kind)
}

// RecordTreeSize records the node count of a validated tree.
func (c *Collector) RecordTreeSize(nodes int) {
	if c == nil {
		return
	}
	c.checkMetrics.RecordTreeSize(nodes)
}

// RecordGrammarLoad records a grammar load. On success types is the number of known names.
func (c *Collector) RecordGrammarLoad(grammar string, err error, types int) {
	if c == nil {
		return
	}
	if err != nil {
		c.grammarMetrics.loadsTotal.WithLabelValues(ResultError).Inc()
		return
	}
	c.grammarMetrics.loadsTotal.WithLabelValues(ResultOK).Inc()

	if !c.cardinalityLimiter.Allow(grammar) {
		grammar = "other"
	}
	c.grammarMetrics.types.WithLabelValues(grammar).Set(float64(types))
}

// RecordWatchEvent records a file event handled by watch.
func (c *Collector) RecordWatchEvent(op string) {
	if c == nil {
		return
	}
	c.grammarMetrics.watchEvents.WithLabelValues(op).Inc()
}

// RecordReportStored records a stored check report.
func (c *Collector) RecordReportStored() {
	if c == nil {
		return
	}
	c.grammarMetrics.reportsStored.Inc()
}

// RecordReportsPruned records reports removed by retention.
func (c *Collector) RecordReportsPruned(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.grammarMetrics.reportsPruned.Add(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used: it is already known or
// the limit has not been reached.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
