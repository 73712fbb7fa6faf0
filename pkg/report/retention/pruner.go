// Package retention enforces age and count limits on stored reports.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/arbor/pkg/config"
	"mercator-hq/arbor/pkg/report"
	"mercator-hq/arbor/pkg/telemetry/metrics"
)

// Pruner enforces retention limits on a report store.
type Pruner struct {
	storage   report.Storage
	config    config.RetentionConfig
	metrics   *metrics.Collector
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a pruner. collector may be nil.
func NewPruner(storage report.Storage, cfg config.RetentionConfig, collector *metrics.Collector) *Pruner {
	p := &Pruner{
		storage: storage,
		config:  cfg,
		metrics: collector,
		logger:  slog.Default().With("component", "report.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes reports older than the retention period, then the oldest
// reports beyond the record cap. It returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
	}

	p.metrics.RecordReportsPruned(totalDeleted)

	if totalDeleted == 0 {
		p.logger.Debug("no reports pruned",
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("report pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.Days)

	p.logger.Debug("pruning by age", "cutoff_time", cutoff)

	return p.storage.Delete(ctx, &report.Query{EndTime: &cutoff})
}

// pruneByCount deletes the oldest reports until at most MaxRecords remain.
// Reports sharing the cutoff timestamp are deleted together.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &report.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords
	p.logger.Info("report count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.config.MaxRecords,
		"to_delete", toDelete,
	)

	oldest, err := p.storage.Query(ctx, &report.Query{
		SortOrder: "asc",
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query reports: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].CreatedAt
	deleted, err := p.storage.Delete(ctx, &report.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	return deleted, nil
}

// Start starts the scheduled pruning.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the scheduled pruning.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
