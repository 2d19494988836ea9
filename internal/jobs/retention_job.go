package jobs

import (
	"context"
	"time"

	"clubhouse/internal/logging"
	"clubhouse/internal/metrics"
)

const retentionJobName = "notification_retention"

// Pruner deletes read notifications older than a retention window
type Pruner interface {
	PruneRead(ctx context.Context, retention time.Duration) (int64, error)
}

// RetentionJob keeps the notifications table from growing without bound
type RetentionJob struct {
	pruner    Pruner
	retention time.Duration
	metrics   *metrics.MetricsRegistry
}

func NewRetentionJob(pruner Pruner, retention time.Duration, metricsReg *metrics.MetricsRegistry) *RetentionJob {
	return &RetentionJob{
		pruner:    pruner,
		retention: retention,
		metrics:   metricsReg,
	}
}

// Run executes one pruning pass
func (j *RetentionJob) Run(ctx context.Context) error {
	start := time.Now()
	defer func() {
		j.metrics.ObserveJob(retentionJobName, time.Since(start).Seconds())
	}()

	deleted, err := j.pruner.PruneRead(ctx, j.retention)
	if err != nil {
		return err
	}

	logging.Debug("Retention pass finished", "deleted", deleted, "duration", time.Since(start).String())
	return nil
}

// RunScheduled runs once immediately, then every interval until ctx is cancelled
func (j *RetentionJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Error("Retention job failed", "error", err.Error())
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("Retention job failed", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("Retention job stopped")
			return
		}
	}
}
