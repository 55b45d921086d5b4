// Package jobs provides the scheduled background tasks of the service,
// built on github.com/robfig/cron/v3 and managed through JobManager.
package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"cafe/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	snapshotPruningJob *SnapshotPruningJob
}

// NewJobManager creates a job manager wiring every background job.
func NewJobManager(
	snapshots ports.SnapshotStore,
	clock ports.Clock,
	snapshotRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		snapshotPruningJob: NewSnapshotPruningJob(snapshots, clock, snapshotRetention, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.snapshotPruningJob.Start(); err != nil {
		return fmt.Errorf("failed to start snapshot pruning job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.snapshotPruningJob.Stop()
}
