package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// Transaction is an immutable, append-only ledger entry. Amounts are signed
// integer minor-currency units. Entries are created exclusively by the
// external ledger writer and are never mutated or deleted here.
type Transaction struct {
	CreatedAt      time.Time
	ID             string
	WalletID       string
	Currency       string
	Type           TransactionType
	Description    string
	IdempotencyKey string
	RelatedID      string
	Amount         decimal.Decimal
}

// LedgerBalance is the signed sum of a wallet's entries. The ledger is the
// source of truth by definition.
func LedgerBalance(entries []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}
