package domain

import "time"

// Wallet identifies one balance-holding entity for one currency.
// Wallets are read-only inputs to reconciliation; identity and currency
// are fixed at creation by the external wallet service.
type Wallet struct {
	ID        string
	UserID    string
	Currency  string
	CreatedAt time.Time
}
