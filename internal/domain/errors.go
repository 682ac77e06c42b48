package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrInvalidWalletID = errors.New("invalid wallet ID")
	ErrInvalidCurrency = errors.New("invalid currency code")

	// Reconciliation errors
	ErrProjectionConflict       = errors.New("projection balance changed concurrently")
	ErrInvalidBatchSize         = errors.New("batch size must be positive")
	ErrReconciliationInProgress = errors.New("another reconciliation run is in progress")
)
