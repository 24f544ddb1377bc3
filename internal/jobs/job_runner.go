package jobs

import (
	"context"
	"time"

	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	ledger  service.LedgerService
	archive repository.ArchiveRepository
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(ledger service.LedgerService, archive repository.ArchiveRepository) *JobRunner {
	return &JobRunner{
		ledger:  ledger,
		archive: archive,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// TakeLedgerSnapshot captures the committed ledger state and archives it.
func (jr *JobRunner) TakeLedgerSnapshot() {
	jr.runWithRecovery("TakeLedgerSnapshot", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		snap, err := jr.ledger.Snapshot(ctx)
		if err != nil {
			logger.Error("Failed to capture ledger snapshot", "error", err)
			return
		}

		if err := jr.archive.SaveSnapshot(ctx, snap); err != nil {
			logger.Error("Failed to archive ledger snapshot", "error", err)
			return
		}

		logger.Info("Ledger snapshot archived",
			"accounts", len(snap.Entries),
			"escrows", len(snap.Escrows),
			"total_supply", snap.TotalSupply)
	})
}
