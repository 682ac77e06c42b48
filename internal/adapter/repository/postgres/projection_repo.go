package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

// ProjectionRepository implements usecase.ProjectionRepository over the
// wallet_balances table.
type ProjectionRepository struct {
	pool    *pgxpool.Pool
	retrier usecase.Retrier
}

// NewProjectionRepository creates a new ProjectionRepository. Writes go
// through the retrier to absorb transient deadlock and serialization
// failures.
func NewProjectionRepository(pool *pgxpool.Pool, retrier usecase.Retrier) *ProjectionRepository {
	return &ProjectionRepository{
		pool:    pool,
		retrier: retrier,
	}
}

// GetBalance retrieves the cached balance for a wallet, or (nil, nil) when
// no projection row exists.
func (r *ProjectionRepository) GetBalance(ctx context.Context, walletID string) (*domain.BalanceProjection, error) {
	var (
		projection domain.BalanceProjection
		balance    pgtype.Numeric
		updatedAt  pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT wallet_id, balance, currency, updated_at FROM wallet_balances WHERE wallet_id = $1`,
		walletID,
	).Scan(&projection.WalletID, &balance, &projection.Currency, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	projection.Balance = numericToDecimal(balance)
	projection.UpdatedAt = updatedAt.Time

	return &projection, nil
}

// UpdateBalance replaces the projection with balance, conditional on the
// stored value still matching expected. A row that changed since the read
// (or appeared concurrently) yields domain.ErrProjectionConflict so the
// caller can record the lost race instead of clobbering the other writer.
func (r *ProjectionRepository) UpdateBalance(ctx context.Context, walletID string, balance, expected decimal.Decimal, currency string, updatedAt time.Time) error {
	return r.retrier.Retry(ctx, func() error {
		return r.updateBalanceOnce(ctx, walletID, balance, expected, currency, updatedAt)
	})
}

func (r *ProjectionRepository) updateBalanceOnce(ctx context.Context, walletID string, balance, expected decimal.Decimal, currency string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wallet_balances
		 SET balance = $2, currency = $3, updated_at = $4
		 WHERE wallet_id = $1 AND balance = $5`,
		walletID, decimalToNumeric(balance), currency, timeToPgTimestamptz(updatedAt), decimalToNumeric(expected))
	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row matched: either the projection is missing (insert it, but only
	// when the caller read it as zero) or another writer got there first.
	if expected.IsZero() {
		tag, err = r.pool.Exec(ctx,
			`INSERT INTO wallet_balances (wallet_id, balance, currency, updated_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (wallet_id) DO NOTHING`,
			walletID, decimalToNumeric(balance), currency, timeToPgTimestamptz(updatedAt))
		if err != nil {
			return err
		}

		if tag.RowsAffected() > 0 {
			return nil
		}
	}

	return domain.ErrProjectionConflict
}
