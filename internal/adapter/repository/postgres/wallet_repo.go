package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
)

// walletPageSize bounds each page of the full-population scan.
const walletPageSize = 1000

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, currency, created_at FROM wallets WHERE id = $1`, id)

	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return wallet, nil
}

// ListAll retrieves the full wallet population. Pages are fetched
// internally in enumeration order; the caller sees one complete set.
func (r *WalletRepository) ListAll(ctx context.Context) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet

	for offset := 0; ; offset += walletPageSize {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, currency, created_at
			 FROM wallets
			 ORDER BY id
			 LIMIT $1 OFFSET $2`, walletPageSize, offset)
		if err != nil {
			return nil, err
		}

		page, err := collectWallets(rows)
		if err != nil {
			return nil, err
		}

		wallets = append(wallets, page...)

		if len(page) < walletPageSize {
			return wallets, nil
		}
	}
}

func collectWallets(rows pgx.Rows) ([]*domain.Wallet, error) {
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet    domain.Wallet
		createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Currency, &createdAt); err != nil {
		return nil, err
	}

	wallet.CreatedAt = createdAt.Time

	return &wallet, nil
}
