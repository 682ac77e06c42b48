package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
)

// LedgerRepository defines read access to the transaction ledger, the
// source of truth for wallet balances. Entries are immutable; this
// subsystem never writes to the ledger.
type LedgerRepository interface {
	GetWalletTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error)
}

// ProjectionRepository defines access to the denormalized balance projection.
type ProjectionRepository interface {
	// GetBalance returns the cached balance for a wallet, or (nil, nil)
	// when no projection row exists yet.
	GetBalance(ctx context.Context, walletID string) (*domain.BalanceProjection, error)
	// UpdateBalance replaces the projection with balance, but only if the
	// stored value still equals expected (compare-and-swap). A lost race
	// returns domain.ErrProjectionConflict.
	UpdateBalance(ctx context.Context, walletID string, balance, expected decimal.Decimal, currency string, updatedAt time.Time) error
}

// WalletRepository defines read access to the wallet population.
type WalletRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	ListAll(ctx context.Context) ([]*domain.Wallet, error)
}

// HealthRepository defines aggregate store counts for the health prober.
type HealthRepository interface {
	Counts(ctx context.Context) (wallets, transactions, projections int64, err error)
}

// AlertSink receives structured alert events. Emission is fire-and-forget;
// callers log and ignore emit failures.
type AlertSink interface {
	Emit(ctx context.Context, event *domain.AlertEvent) error
}

// RunGuard serializes reconciliation runs. Concurrent runs over overlapping
// wallet sets are unsafe because projection writes carry no per-wallet lock.
type RunGuard interface {
	// Acquire returns false when another run holds the lease.
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// LastRunSource exposes the completion time of the most recent run.
type LastRunSource interface {
	LastRunTime() *time.Time
}

// Retrier retries an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
