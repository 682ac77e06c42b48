package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus is the terminal state of a reconciliation run.
type RunStatus string

const (
	// RunStatusCompleted means all batches were processed.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusTimedOut means the run stopped early on its wall-clock budget.
	// It is a successful terminal state with a partial result.
	RunStatusTimedOut RunStatus = "timed_out"
	// RunStatusFailed means the run collapsed before a usable result existed,
	// e.g. the wallet population could not be fetched at all.
	RunStatusFailed RunStatus = "failed"
)

// Discrepancy records one wallet whose projection diverged from its ledger.
// It exists only within a single reconciliation run.
type Discrepancy struct {
	WalletID          string
	Currency          string
	LedgerBalance     decimal.Decimal
	ProjectionBalance decimal.Decimal
	Drift             decimal.Decimal
	EntryCount        int
}

// WalletError records a per-wallet failure captured during a run.
type WalletError struct {
	At       time.Time
	WalletID string
	Message  string
}

// ReconciliationResult aggregates one reconciliation run.
type ReconciliationResult struct {
	Errors             []WalletError
	WalletsProcessed   int
	DiscrepanciesFound int
	DiscrepanciesFixed int
	TotalDriftAmount   decimal.Decimal
	Duration           time.Duration
}

// ErrorRate returns errors / wallets processed, zero when nothing was processed.
func (r *ReconciliationResult) ErrorRate() float64 {
	if r.WalletsProcessed == 0 {
		return 0
	}
	return float64(len(r.Errors)) / float64(r.WalletsProcessed)
}

// DiscrepancyRate returns discrepancies found / wallets processed.
func (r *ReconciliationResult) DiscrepancyRate() float64 {
	if r.WalletsProcessed == 0 {
		return 0
	}
	return float64(r.DiscrepanciesFound) / float64(r.WalletsProcessed)
}
