package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/metrics"
)

// ReconcileConfig carries the tunable thresholds of a reconciliation run.
// Zero values fall back to the package defaults.
type ReconcileConfig struct {
	BatchSize                int
	RunTimeout               time.Duration
	DriftThreshold           decimal.Decimal
	ErrorRateThreshold       float64
	DiscrepancyRateThreshold float64
}

func (c ReconcileConfig) withDefaults() ReconcileConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = DefaultRunTimeout
	}
	if c.DriftThreshold.IsZero() {
		c.DriftThreshold = DefaultDriftThreshold
	}
	if c.ErrorRateThreshold <= 0 {
		c.ErrorRateThreshold = DefaultErrorRateThreshold
	}
	if c.DiscrepancyRateThreshold <= 0 {
		c.DiscrepancyRateThreshold = DefaultDiscrepancyRateThreshold
	}
	return c
}

// ReconcileInput controls one reconciliation run.
type ReconcileInput struct {
	// WalletIDs restricts the run to an explicit set. Empty means the full
	// wallet population.
	WalletIDs []string
	// BatchSize overrides the configured batch size when positive.
	BatchSize int
	// DryRun detects and reports discrepancies without writing projections.
	DryRun bool
}

// ReconcileOutcome is the structured result every caller receives, success
// or not. Reconcile never returns an error past this boundary.
type ReconcileOutcome struct {
	Result  *domain.ReconciliationResult
	RunID   string
	Status  domain.RunStatus
	Message string
	DryRun  bool
	Success bool
}

// EmergencyOutcome is the result of a single-wallet emergency reconciliation.
type EmergencyOutcome struct {
	OldBalance decimal.Decimal
	NewBalance decimal.Decimal
	Drift      decimal.Decimal
	Message    string
	Success    bool
}

// ReconcileUseCase orchestrates drift detection and correction over the
// wallet population. Wallets within a batch are processed sequentially in
// enumeration order; the batch is a checkpointing device, not a unit of
// parallelism.
type ReconcileUseCase struct {
	detector       *DriftDetector
	walletRepo     WalletRepository
	projectionRepo ProjectionRepository
	alerts         AlertSink
	guard          RunGuard
	idGen          IDGenerator
	cfg            ReconcileConfig
	metrics        *metrics.Metrics
	logger         zerolog.Logger
	lastRun        atomic.Pointer[time.Time]
}

// NewReconcileUseCase creates a new ReconcileUseCase. guard may be nil, in
// which case run serialization is the caller's responsibility. A nil metrics
// bundle gets a detached registry so counters always have somewhere to land.
func NewReconcileUseCase(
	detector *DriftDetector,
	walletRepo WalletRepository,
	projectionRepo ProjectionRepository,
	alerts AlertSink,
	guard RunGuard,
	idGen IDGenerator,
	cfg ReconcileConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *ReconcileUseCase {
	if m == nil {
		m = metrics.NewWithRegisterer(prometheus.NewRegistry())
	}
	return &ReconcileUseCase{
		detector:       detector,
		walletRepo:     walletRepo,
		projectionRepo: projectionRepo,
		alerts:         alerts,
		guard:          guard,
		idGen:          idGen,
		cfg:            cfg.withDefaults(),
		metrics:        m,
		logger:         logger.With().Str("component", "reconciler").Logger(),
	}
}

// LastRunTime returns when the most recent run finished, or nil before the
// first run. Failed runs do not count.
func (uc *ReconcileUseCase) LastRunTime() *time.Time {
	return uc.lastRun.Load()
}

// Reconcile runs one reconciliation pass. Per-wallet failures are captured
// in the result; only a total collapse (the wallet population cannot be
// fetched at all) produces a failed outcome.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, input ReconcileInput) *ReconcileOutcome {
	start := time.Now().UTC()
	runID := uc.idGen.Generate()
	uc.metrics.RunsStarted.Inc()

	result := &domain.ReconciliationResult{TotalDriftAmount: decimal.Zero}

	log := uc.logger.With().Str("run_id", runID).Bool("dry_run", input.DryRun).Logger()

	if uc.guard != nil {
		acquired, err := uc.guard.Acquire(ctx)
		if err != nil {
			return uc.failedOutcome(ctx, runID, result, start, input.DryRun,
				fmt.Errorf("acquire run lock: %w", err))
		}
		if !acquired {
			return uc.failedOutcome(ctx, runID, result, start, input.DryRun,
				domain.ErrReconciliationInProgress)
		}
		defer func() {
			if err := uc.guard.Release(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to release run lock")
			}
		}()
	}

	batchSize := uc.cfg.BatchSize
	if input.BatchSize > 0 {
		batchSize = input.BatchSize
	}

	wallets, err := uc.resolveWallets(ctx, log, input.WalletIDs)
	if err != nil {
		return uc.failedOutcome(ctx, runID, result, start, input.DryRun,
			fmt.Errorf("fetch wallet set: %w", err))
	}

	log.Info().Int("wallets", len(wallets)).Int("batch_size", batchSize).Msg("reconciliation started")

	totalBatches := (len(wallets) + batchSize - 1) / batchSize
	status := domain.RunStatusCompleted

	for batch := 0; batch*batchSize < len(wallets); batch++ {
		end := (batch + 1) * batchSize
		if end > len(wallets) {
			end = len(wallets)
		}

		discrepancies := uc.checkBatch(ctx, log, runID, wallets[batch*batchSize:end], result)

		if !input.DryRun {
			uc.applyCorrections(ctx, log, runID, discrepancies, result)
		}

		uc.emit(ctx, runID, domain.EventTypeBatchProgress, domain.SeverityInfo, domain.BatchProgressEvent{
			Batch:              batch + 1,
			TotalBatches:       totalBatches,
			WalletsProcessed:   result.WalletsProcessed,
			DiscrepanciesFound: result.DiscrepanciesFound,
			DiscrepanciesFixed: result.DiscrepanciesFixed,
			Errors:             len(result.Errors),
		})

		if time.Since(start) > uc.cfg.RunTimeout {
			status = domain.RunStatusTimedOut
			log.Warn().Dur("elapsed", time.Since(start)).Msg("run timeout exceeded, stopping early")
			uc.emit(ctx, runID, domain.EventTypeRunTimedOut, domain.SeverityWarning, domain.RunTimedOutEvent{
				Elapsed:          time.Since(start).String(),
				WalletsProcessed: result.WalletsProcessed,
				WalletsTotal:     len(wallets),
			})
			break
		}
	}

	result.Duration = time.Since(start)

	uc.checkRates(ctx, runID, result)

	now := time.Now().UTC()
	uc.lastRun.Store(&now)

	uc.metrics.RunsCompleted.WithLabelValues(string(status)).Inc()
	uc.metrics.RunDuration.Observe(result.Duration.Seconds())

	message := uc.summaryMessage(input.DryRun, status, result)

	uc.emit(ctx, runID, domain.EventTypeRunCompleted, domain.SeverityInfo, domain.RunCompletedEvent{
		Status:             string(status),
		DryRun:             input.DryRun,
		WalletsProcessed:   result.WalletsProcessed,
		DiscrepanciesFound: result.DiscrepanciesFound,
		DiscrepanciesFixed: result.DiscrepanciesFixed,
		TotalDrift:         result.TotalDriftAmount.String(),
		Errors:             len(result.Errors),
		Duration:           result.Duration.String(),
	})

	log.Info().
		Str("status", string(status)).
		Int("wallets_processed", result.WalletsProcessed).
		Int("discrepancies_found", result.DiscrepanciesFound).
		Int("discrepancies_fixed", result.DiscrepanciesFixed).
		Str("total_drift", result.TotalDriftAmount.String()).
		Dur("duration", result.Duration).
		Msg("reconciliation finished")

	return &ReconcileOutcome{
		Result:  result,
		RunID:   runID,
		Status:  status,
		Message: message,
		DryRun:  input.DryRun,
		Success: true,
	}
}

// EmergencyReconcile checks one wallet outside the batch flow and always
// applies the fix when drift is non-zero. Every invocation alerts; the
// caller is assumed to be an operator responding to a known issue. Only an
// unknown wallet or a failed detection returns an error; a failed fix write
// comes back as an unsuccessful outcome.
func (uc *ReconcileUseCase) EmergencyReconcile(ctx context.Context, walletID, reason string) (*EmergencyOutcome, error) {
	wallet, err := uc.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		uc.metrics.EmergencyRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	report, err := uc.detector.DetectDrift(ctx, walletID)
	if err != nil {
		uc.metrics.EmergencyRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	currency := report.Currency
	if currency == "" {
		currency = wallet.Currency
	}

	outcome := &EmergencyOutcome{
		OldBalance: report.ProjectionBalance,
		NewBalance: report.ProjectionBalance,
		Drift:      report.Drift,
		Success:    true,
	}

	emergencyOutcomeLabel := "clean"

	if !report.Drift.IsZero() {
		now := time.Now().UTC()
		if err := uc.projectionRepo.UpdateBalance(ctx, walletID, report.LedgerBalance, report.ProjectionBalance, currency, now); err != nil {
			outcome.Success = false
			outcome.Message = fmt.Sprintf("Fix failed for wallet %s: %v", walletID, err)
			emergencyOutcomeLabel = "failed"
		} else {
			outcome.NewBalance = report.LedgerBalance
			outcome.Message = fmt.Sprintf("Corrected wallet %s: projection %s -> %s (drift %s)",
				walletID, report.ProjectionBalance, report.LedgerBalance, report.Drift)
			emergencyOutcomeLabel = "fixed"
		}
	} else {
		outcome.Message = fmt.Sprintf("No reconciliation needed: projection for wallet %s matches ledger", walletID)
	}

	uc.metrics.EmergencyRuns.WithLabelValues(emergencyOutcomeLabel).Inc()

	uc.emit(ctx, uc.idGen.Generate(), domain.EventTypeEmergencyReconcile, domain.SeverityCritical, domain.EmergencyReconcileEvent{
		WalletID:   walletID,
		Reason:     reason,
		OldBalance: outcome.OldBalance.String(),
		NewBalance: outcome.NewBalance.String(),
		Drift:      report.Drift.String(),
	})

	uc.logger.Info().
		Str("wallet_id", walletID).
		Str("reason", reason).
		Str("drift", report.Drift.String()).
		Msg("emergency reconciliation")

	return outcome, nil
}

// resolveWallets builds the working set: point lookups for an explicit id
// list (missing or failing wallets are logged and skipped), otherwise the
// full population.
func (uc *ReconcileUseCase) resolveWallets(ctx context.Context, log zerolog.Logger, ids []string) ([]*domain.Wallet, error) {
	if len(ids) == 0 {
		return uc.walletRepo.ListAll(ctx)
	}

	wallets := make([]*domain.Wallet, 0, len(ids))
	for _, id := range ids {
		wallet, err := uc.walletRepo.GetByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("wallet fetch failed, skipping")
			continue
		}
		wallets = append(wallets, wallet)
	}

	return wallets, nil
}

// checkBatch runs drift detection over one batch sequentially and returns
// the discrepancies found. A wallet counts as processed only once its
// detection succeeds; detection failures land in the error list instead.
func (uc *ReconcileUseCase) checkBatch(ctx context.Context, log zerolog.Logger, runID string, wallets []*domain.Wallet, result *domain.ReconciliationResult) []*domain.Discrepancy {
	var discrepancies []*domain.Discrepancy

	for _, wallet := range wallets {
		report, err := uc.detector.DetectDrift(ctx, wallet.ID)
		if err != nil {
			result.Errors = append(result.Errors, domain.WalletError{
				WalletID: wallet.ID,
				Message:  err.Error(),
				At:       time.Now().UTC(),
			})
			uc.metrics.WalletErrors.Inc()
			log.Warn().Err(err).Str("wallet_id", wallet.ID).Msg("drift detection failed")
			continue
		}

		result.WalletsProcessed++
		uc.metrics.WalletsChecked.Inc()

		if report.Drift.IsZero() {
			continue
		}

		currency := report.Currency
		if currency == "" {
			currency = wallet.Currency
		}

		discrepancies = append(discrepancies, &domain.Discrepancy{
			WalletID:          wallet.ID,
			Currency:          currency,
			LedgerBalance:     report.LedgerBalance,
			ProjectionBalance: report.ProjectionBalance,
			Drift:             report.Drift,
			EntryCount:        report.EntryCount,
		})
		result.DiscrepanciesFound++
		result.TotalDriftAmount = result.TotalDriftAmount.Add(report.Drift)

		uc.metrics.DiscrepanciesFound.Inc()
		drift, _ := report.Drift.Float64()
		uc.metrics.DriftAmount.Observe(drift)

		if report.Drift.GreaterThanOrEqual(uc.cfg.DriftThreshold) {
			uc.emit(ctx, runID, domain.EventTypeDriftDetected, domain.SeverityWarning, domain.DriftDetectedEvent{
				WalletID:          wallet.ID,
				Currency:          currency,
				LedgerBalance:     report.LedgerBalance.String(),
				ProjectionBalance: report.ProjectionBalance.String(),
				Drift:             report.Drift.String(),
			})
		}
	}

	return discrepancies
}

// applyCorrections writes the ledger balance over each discrepant
// projection. The write is conditional on the projection still holding the
// value read during detection, so a concurrent legitimate update is
// recorded as a fix failure instead of being clobbered.
func (uc *ReconcileUseCase) applyCorrections(ctx context.Context, log zerolog.Logger, runID string, discrepancies []*domain.Discrepancy, result *domain.ReconciliationResult) {
	for _, d := range discrepancies {
		now := time.Now().UTC()
		err := uc.projectionRepo.UpdateBalance(ctx, d.WalletID, d.LedgerBalance, d.ProjectionBalance, d.Currency, now)
		if err != nil {
			result.Errors = append(result.Errors, domain.WalletError{
				WalletID: d.WalletID,
				Message:  fmt.Sprintf("Fix failed: %v", err),
				At:       now,
			})
			uc.metrics.WalletErrors.Inc()
			if errors.Is(err, domain.ErrProjectionConflict) {
				uc.metrics.FixConflicts.Inc()
			}
			log.Warn().Err(err).Str("wallet_id", d.WalletID).Msg("projection fix failed")
			continue
		}

		result.DiscrepanciesFixed++
		uc.metrics.DiscrepanciesFixed.Inc()

		uc.emit(ctx, runID, domain.EventTypeCorrectionApplied, domain.SeverityInfo, domain.CorrectionAppliedEvent{
			WalletID:   d.WalletID,
			OldBalance: d.ProjectionBalance.String(),
			NewBalance: d.LedgerBalance.String(),
			Drift:      d.Drift.String(),
		})
	}
}

func (uc *ReconcileUseCase) checkRates(ctx context.Context, runID string, result *domain.ReconciliationResult) {
	if rate := result.ErrorRate(); rate > uc.cfg.ErrorRateThreshold {
		uc.emit(ctx, runID, domain.EventTypeHighErrorRate, domain.SeverityCritical, domain.HighErrorRateEvent{
			ErrorRate: rate,
			Threshold: uc.cfg.ErrorRateThreshold,
			Errors:    len(result.Errors),
		})
	}

	if rate := result.DiscrepancyRate(); rate > uc.cfg.DiscrepancyRateThreshold {
		uc.emit(ctx, runID, domain.EventTypeHighDiscrepancyRate, domain.SeverityCritical, domain.HighDiscrepancyRateEvent{
			DiscrepancyRate:    rate,
			Threshold:          uc.cfg.DiscrepancyRateThreshold,
			DiscrepanciesFound: result.DiscrepanciesFound,
		})
	}
}

func (uc *ReconcileUseCase) failedOutcome(ctx context.Context, runID string, result *domain.ReconciliationResult, start time.Time, dryRun bool, cause error) *ReconcileOutcome {
	result.Duration = time.Since(start)

	uc.metrics.RunsCompleted.WithLabelValues(string(domain.RunStatusFailed)).Inc()
	uc.metrics.RunDuration.Observe(result.Duration.Seconds())

	uc.logger.Error().Err(cause).Str("run_id", runID).Msg("reconciliation run failed")

	uc.emit(ctx, runID, domain.EventTypeRunFailed, domain.SeverityCritical, domain.RunFailedEvent{
		Error:            cause.Error(),
		WalletsProcessed: result.WalletsProcessed,
	})

	return &ReconcileOutcome{
		Result:  result,
		RunID:   runID,
		Status:  domain.RunStatusFailed,
		Message: fmt.Sprintf("Reconciliation failed: %v", cause),
		DryRun:  dryRun,
		Success: false,
	}
}

func (uc *ReconcileUseCase) summaryMessage(dryRun bool, status domain.RunStatus, result *domain.ReconciliationResult) string {
	var message string
	if dryRun {
		message = fmt.Sprintf("Dry run complete: %d wallets checked, %d discrepancies found (no corrections applied)",
			result.WalletsProcessed, result.DiscrepanciesFound)
	} else {
		message = fmt.Sprintf("Reconciliation complete: %d wallets checked, %d discrepancies found, %d fixed",
			result.WalletsProcessed, result.DiscrepanciesFound, result.DiscrepanciesFixed)
	}

	if status == domain.RunStatusTimedOut {
		message += fmt.Sprintf("; stopped early after %s (time budget exceeded)", result.Duration.Round(time.Millisecond))
	}

	return message
}

// emit hands an event to the alert sink. Emission is best-effort; failures
// are logged at debug and otherwise ignored.
func (uc *ReconcileUseCase) emit(ctx context.Context, runID, eventType, severity string, payload any) {
	if uc.alerts == nil {
		return
	}

	event := &domain.AlertEvent{
		ID:        uc.idGen.Generate(),
		RunID:     runID,
		Type:      eventType,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}

	if err := uc.alerts.Emit(ctx, event); err != nil {
		uc.logger.Debug().Err(err).Str("event_type", eventType).Msg("alert emission failed")
	}
}
