package scheduler

import (
	"context"
	"fmt"

	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

// ReconcileJob runs a scheduled reconciliation pass over the full
// wallet population.
type ReconcileJob struct {
	service ReconcileService
	dryRun  bool
}

// ReconcileService is the use case surface the job depends on.
type ReconcileService interface {
	Reconcile(ctx context.Context, input usecase.ReconcileInput) *usecase.ReconcileOutcome
}

// NewReconcileJob creates a new ReconcileJob.
func NewReconcileJob(service ReconcileService, dryRun bool) *ReconcileJob {
	return &ReconcileJob{service: service, dryRun: dryRun}
}

// Name implements Job.
func (j *ReconcileJob) Name() string {
	if j.dryRun {
		return "reconcile-dry-run"
	}
	return "reconcile"
}

// Run executes one reconciliation pass. A failed run surfaces as a job
// error; overlapping runs are rejected by the run lock and also come
// back as failed outcomes.
func (j *ReconcileJob) Run(ctx context.Context) error {
	outcome := j.service.Reconcile(ctx, usecase.ReconcileInput{DryRun: j.dryRun})
	if !outcome.Success {
		return fmt.Errorf("reconciliation run %s failed: %s", outcome.RunID, outcome.Message)
	}
	return nil
}
