package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBatchSize is how many wallets are checked between progress
	// checkpoints and before a batch's fixes are applied.
	DefaultBatchSize = 100

	// DefaultRunTimeout is the wall-clock budget for one reconciliation run.
	// The deadline is checked once per completed batch.
	DefaultRunTimeout = 30 * time.Second

	// DefaultErrorRateThreshold triggers a high-error-rate alert.
	DefaultErrorRateThreshold = 0.10

	// DefaultDiscrepancyRateThreshold triggers a high-discrepancy-rate alert.
	DefaultDiscrepancyRateThreshold = 0.05
)

// DefaultDriftThreshold is the significant-drift threshold in minor currency
// units. Any drift at or above it fires an immediate per-wallet alert.
var DefaultDriftThreshold = decimal.NewFromInt(1)
