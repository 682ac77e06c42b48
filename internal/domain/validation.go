package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxWalletIDLength = 64
	MaxBatchSize      = 10000
	MaxReasonLength   = 1024
)

// Valid currency codes. The wallet service supports a fixed small set.
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true,
	"EGP": true, "AED": true, "SAR": true,
}

var walletIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateWalletID validates a wallet identifier.
func ValidateWalletID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWalletID)
	}

	if len(id) > MaxWalletIDLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidWalletID, MaxWalletIDLength)
	}

	if !walletIDRegex.MatchString(id) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidWalletID)
	}

	return nil
}

// ValidateBatchSize validates a reconciliation batch size.
func ValidateBatchSize(size int) error {
	if size <= 0 {
		return ErrInvalidBatchSize
	}

	if size > MaxBatchSize {
		return fmt.Errorf("%w: maximum is %d", ErrInvalidBatchSize, MaxBatchSize)
	}

	return nil
}
