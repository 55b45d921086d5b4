package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"cafe/internal/core/ports"
)

// pruningSchedule runs the sweep hourly, on the hour.
const pruningSchedule = "0 0 * * * *"

// SnapshotPruningJob periodically drops snapshots older than the retention
// window so the in-memory store does not grow without bound.
type SnapshotPruningJob struct {
	snapshots ports.SnapshotStore
	clock     ports.Clock
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewSnapshotPruningJob creates the pruning job. Snapshots older than
// retention at sweep time are removed.
func NewSnapshotPruningJob(
	snapshots ports.SnapshotStore,
	clock ports.Clock,
	retention time.Duration,
	logger *slog.Logger,
) *SnapshotPruningJob {
	return &SnapshotPruningJob{
		snapshots: snapshots,
		clock:     clock,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "snapshot_pruning_job"),
	}
}

// Start schedules the hourly sweep.
func (j *SnapshotPruningJob) Start() error {
	_, err := j.cron.AddFunc(pruningSchedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "snapshot pruning job started",
		"retention", j.retention.String())
	return nil
}

// RunOnce performs a single sweep. Exposed so startup and tests can prune
// without waiting for the schedule.
func (j *SnapshotPruningJob) RunOnce(ctx context.Context) {
	cutoff := j.clock.Now().Add(-j.retention)

	removed, err := j.snapshots.Prune(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "snapshot pruning failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "snapshots pruned",
			"removed", removed, "cutoff", cutoff)
	}
}

// Stop stops the scheduled sweep.
func (j *SnapshotPruningJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "snapshot pruning job stopped")
}
