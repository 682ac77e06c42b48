package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
)

// DriftReport is the outcome of one drift check. Drift is always
// |ledger - projection| and therefore non-negative.
type DriftReport struct {
	WalletID          string
	Currency          string
	LedgerBalance     decimal.Decimal
	ProjectionBalance decimal.Decimal
	Drift             decimal.Decimal
	EntryCount        int
}

// DriftDetector computes ledger-vs-projection divergence for one wallet.
// It is purely read-and-compute; it never writes.
type DriftDetector struct {
	ledgerRepo     LedgerRepository
	projectionRepo ProjectionRepository
}

// NewDriftDetector creates a new DriftDetector.
func NewDriftDetector(ledgerRepo LedgerRepository, projectionRepo ProjectionRepository) *DriftDetector {
	return &DriftDetector{
		ledgerRepo:     ledgerRepo,
		projectionRepo: projectionRepo,
	}
}

// DetectDrift sums the wallet's ledger entries (always a fresh full scan)
// and compares the sum against the cached projection. A missing projection
// is treated as a zero balance.
func (d *DriftDetector) DetectDrift(ctx context.Context, walletID string) (*DriftReport, error) {
	entries, err := d.ledgerRepo.GetWalletTransactions(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("ledger read for wallet %s: %w", walletID, err)
	}

	ledgerBalance := domain.LedgerBalance(entries)

	currency := ""
	if len(entries) > 0 {
		currency = entries[0].Currency
	}

	projection, err := d.projectionRepo.GetBalance(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("projection read for wallet %s: %w", walletID, err)
	}

	projectionBalance := decimal.Zero
	if projection != nil {
		projectionBalance = projection.Balance
		if currency == "" {
			currency = projection.Currency
		}
	}

	return &DriftReport{
		WalletID:          walletID,
		Currency:          currency,
		LedgerBalance:     ledgerBalance,
		ProjectionBalance: projectionBalance,
		Drift:             ledgerBalance.Sub(projectionBalance).Abs(),
		EntryCount:        len(entries),
	}, nil
}
