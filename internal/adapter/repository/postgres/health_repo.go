package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthRepository implements usecase.HealthRepository.
type HealthRepository struct {
	pool *pgxpool.Pool
}

// NewHealthRepository creates a new HealthRepository.
func NewHealthRepository(pool *pgxpool.Pool) *HealthRepository {
	return &HealthRepository{pool: pool}
}

// Counts returns aggregate row counts for the three reconciliation stores
// in a single round trip.
func (r *HealthRepository) Counts(ctx context.Context) (wallets, transactions, projections int64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM wallets),
			(SELECT count(*) FROM wallet_transactions),
			(SELECT count(*) FROM wallet_balances)`,
	).Scan(&wallets, &transactions, &projections)
	if err != nil {
		return 0, 0, 0, err
	}

	return wallets, transactions, projections, nil
}
