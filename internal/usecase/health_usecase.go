package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecks holds the individual probe results.
type HealthChecks struct {
	LastReconcileTime      *time.Time `json:"last_reconcile_time,omitempty"`
	WalletCount            int64      `json:"wallet_count"`
	TransactionCount       int64      `json:"transaction_count"`
	BalanceProjectionCount int64      `json:"balance_projection_count"`
	DatabaseConnectivity   bool       `json:"database_connectivity"`
}

// HealthStatus is the aggregate readiness report for reconciliation.
type HealthStatus struct {
	Checks  HealthChecks `json:"checks"`
	Healthy bool         `json:"healthy"`
}

// HealthUseCase verifies the ledger and projection stores are reachable.
// It never returns an error; an unreachable store yields an unhealthy
// status instead.
type HealthUseCase struct {
	healthRepo HealthRepository
	lastRun    LastRunSource
	logger     zerolog.Logger
}

// NewHealthUseCase creates a new HealthUseCase. lastRun may be nil.
func NewHealthUseCase(healthRepo HealthRepository, lastRun LastRunSource, logger zerolog.Logger) *HealthUseCase {
	return &HealthUseCase{
		healthRepo: healthRepo,
		lastRun:    lastRun,
		logger:     logger.With().Str("component", "health").Logger(),
	}
}

// HealthCheck probes the stores and reports aggregate counts. Healthy is a
// connectivity gate: counts are non-negative by construction once the
// query succeeds.
func (uc *HealthUseCase) HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{}

	wallets, transactions, projections, err := uc.healthRepo.Counts(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("health check counts failed")
		return status
	}

	status.Checks.DatabaseConnectivity = true
	status.Checks.WalletCount = wallets
	status.Checks.TransactionCount = transactions
	status.Checks.BalanceProjectionCount = projections
	status.Healthy = wallets >= 0 && transactions >= 0 && projections >= 0

	if uc.lastRun != nil {
		status.Checks.LastReconcileTime = uc.lastRun.LastRunTime()
	}

	return status
}
