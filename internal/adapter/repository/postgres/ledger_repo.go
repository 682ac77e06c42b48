package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository over the append-only
// wallet_transactions table. This subsystem never writes to it.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// GetWalletTransactions retrieves all ledger entries for a wallet in
// creation order. Reconciliation always scans the full set; the entry sum
// defines the ledger balance.
func (r *LedgerRepository) GetWalletTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, wallet_id, amount, currency, type, description, idempotency_key, related_id, created_at
		 FROM wallet_transactions
		 WHERE wallet_id = $1
		 ORDER BY created_at, id`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Transaction
	for rows.Next() {
		var (
			entry          domain.Transaction
			amount         pgtype.Numeric
			description    pgtype.Text
			idempotencyKey pgtype.Text
			relatedID      pgtype.Text
			createdAt      pgtype.Timestamptz
		)

		err := rows.Scan(&entry.ID, &entry.WalletID, &amount, &entry.Currency, &entry.Type,
			&description, &idempotencyKey, &relatedID, &createdAt)
		if err != nil {
			return nil, err
		}

		entry.Amount = numericToDecimal(amount)
		entry.Description = description.String
		entry.IdempotencyKey = idempotencyKey.String
		entry.RelatedID = relatedID.String
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
