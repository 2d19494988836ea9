package jobs

import (
	"context"
	"time"

	"clubhouse/internal/metrics"
	"clubhouse/internal/services"
)

const retentionInterval = 1 * time.Hour

// InitializeJobs starts all background jobs; they stop when ctx is cancelled
func InitializeJobs(
	ctx context.Context,
	notifications *services.NotificationService,
	retention time.Duration,
	metricsReg *metrics.MetricsRegistry,
) *RetentionJob {
	retentionJob := NewRetentionJob(notifications, retention, metricsReg)

	go retentionJob.RunScheduled(ctx, retentionInterval)

	return retentionJob
}
