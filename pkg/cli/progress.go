package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Outcome classifies one checked tree.
type Outcome int

const (
	// OutcomePassed means the tree conforms to its declared type.
	OutcomePassed Outcome = iota
	// OutcomeFailed means the tree was checked and does not conform.
	OutcomeFailed
	// OutcomeErrored means the tree could not be checked at all.
	OutcomeErrored
)

// OutcomeOf maps a check verdict and error to an Outcome.
func OutcomeOf(ok bool, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeErrored
	case ok:
		return OutcomePassed
	default:
		return OutcomeFailed
	}
}

// Tally counts the outcomes recorded so far.
type Tally struct {
	Total   int64
	Passed  int64
	Failed  int64
	Errored int64
}

// Checked returns the number of trees recorded.
func (t Tally) Checked() int64 {
	return t.Passed + t.Failed + t.Errored
}

// ProgressReporter reports progress through a batch of trees.
type ProgressReporter interface {
	Start(total int64)
	Record(outcome Outcome)
	Finish()
	Error(err error)
}

// TreeProgress renders a single status line with pass and fail counts.
type TreeProgress struct {
	mu      sync.Mutex
	tally   Tally
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) *TreeProgress {
	if w == nil {
		w = os.Stderr
	}
	return &TreeProgress{writer: w}
}

// Start resets the counts for a batch of total trees.
func (p *TreeProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tally = Tally{Total: total}
	p.started = time.Now()
	p.render()
}

// Record counts one checked tree and redraws the status line.
func (p *TreeProgress) Record(outcome Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch outcome {
	case OutcomePassed:
		p.tally.Passed++
	case OutcomeFailed:
		p.tally.Failed++
	default:
		p.tally.Errored++
	}
	if checked := p.tally.Checked(); checked > p.tally.Total {
		p.tally.Total = checked
	}
	p.render()
}

// Tally returns a snapshot of the counts.
func (p *TreeProgress) Tally() Tally {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tally
}

// Finish ends the status line and prints the batch summary.
func (p *TreeProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tally.Total > 0 {
		fmt.Fprintln(p.writer)
	}
	elapsed := time.Since(p.started).Round(time.Millisecond)
	fmt.Fprintf(p.writer, "Checked %d tree(s) in %s: %d passed, %d failed, %d error(s)\n",
		p.tally.Checked(), elapsed, p.tally.Passed, p.tally.Failed, p.tally.Errored)
}

// Error reports a problem that stopped the batch.
func (p *TreeProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

func (p *TreeProgress) render() {
	if p.tally.Total == 0 {
		return
	}

	const width = 30
	checked := p.tally.Checked()
	passedCells := int(width * p.tally.Passed / p.tally.Total)
	failedCells := int(width * (p.tally.Failed + p.tally.Errored) / p.tally.Total)
	bar := strings.Repeat("█", passedCells) +
		strings.Repeat("▒", failedCells) +
		strings.Repeat("░", width-passedCells-failedCells)

	fmt.Fprintf(p.writer, "\rTrees: [%s] %d/%d  ✓ %d  ✗ %d  ! %d",
		bar, checked, p.tally.Total, p.tally.Passed, p.tally.Failed, p.tally.Errored)
}
