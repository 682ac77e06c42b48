package dto

import (
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

// ReconcileRequest represents a request to start a reconciliation run.
type ReconcileRequest struct {
	WalletIDs []string `json:"wallet_ids,omitempty"`
	BatchSize int      `json:"batch_size,omitempty"`
	DryRun    bool     `json:"dry_run"`
}

// ToUseCaseInput converts to use case input.
func (r *ReconcileRequest) ToUseCaseInput() usecase.ReconcileInput {
	return usecase.ReconcileInput{
		WalletIDs: r.WalletIDs,
		BatchSize: r.BatchSize,
		DryRun:    r.DryRun,
	}
}

// EmergencyRequest represents a request to reconcile a single wallet
// outside the scheduled cycle.
type EmergencyRequest struct {
	Reason string `json:"reason"`
}
