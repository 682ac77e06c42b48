package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceProjection is the denormalized per-wallet balance used for fast
// reads. It is never independently authoritative; it is always reconcilable
// from the ledger.
type BalanceProjection struct {
	UpdatedAt time.Time
	WalletID  string
	Currency  string
	Balance   decimal.Decimal
}
