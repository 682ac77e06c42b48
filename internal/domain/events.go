package domain

import "time"

// Alert event types
const (
	EventTypeDriftDetected       = "reconciliation.drift_detected"
	EventTypeCorrectionApplied   = "reconciliation.correction_applied"
	EventTypeBatchProgress       = "reconciliation.batch_progress"
	EventTypeRunTimedOut         = "reconciliation.run_timed_out"
	EventTypeRunCompleted        = "reconciliation.run_completed"
	EventTypeRunFailed           = "reconciliation.run_failed"
	EventTypeHighErrorRate       = "reconciliation.high_error_rate"
	EventTypeHighDiscrepancyRate = "reconciliation.high_discrepancy_rate"
	EventTypeEmergencyReconcile  = "reconciliation.emergency"
)

// Alert severities
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AlertEvent is a structured event handed to the alert sink. Delivery is
// fire-and-forget; the sink's response is never relied upon. Payload holds
// the typed event struct matching Type.
type AlertEvent struct {
	CreatedAt time.Time
	Payload   any
	ID        string
	RunID     string
	Type      string
	Severity  string
}

// DriftDetectedEvent payload
type DriftDetectedEvent struct {
	WalletID          string `json:"wallet_id"`
	Currency          string `json:"currency"`
	LedgerBalance     string `json:"ledger_balance"`
	ProjectionBalance string `json:"projection_balance"`
	Drift             string `json:"drift"`
}

// CorrectionAppliedEvent payload
type CorrectionAppliedEvent struct {
	WalletID   string `json:"wallet_id"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
	Drift      string `json:"drift"`
}

// BatchProgressEvent payload
type BatchProgressEvent struct {
	Batch              int `json:"batch"`
	TotalBatches       int `json:"total_batches"`
	WalletsProcessed   int `json:"wallets_processed"`
	DiscrepanciesFound int `json:"discrepancies_found"`
	DiscrepanciesFixed int `json:"discrepancies_fixed"`
	Errors             int `json:"errors"`
}

// RunTimedOutEvent payload
type RunTimedOutEvent struct {
	Elapsed          string `json:"elapsed"`
	WalletsProcessed int    `json:"wallets_processed"`
	WalletsTotal     int    `json:"wallets_total"`
}

// RunCompletedEvent payload
type RunCompletedEvent struct {
	Status             string `json:"status"`
	DryRun             bool   `json:"dry_run"`
	WalletsProcessed   int    `json:"wallets_processed"`
	DiscrepanciesFound int    `json:"discrepancies_found"`
	DiscrepanciesFixed int    `json:"discrepancies_fixed"`
	TotalDrift         string `json:"total_drift"`
	Errors             int    `json:"errors"`
	Duration           string `json:"duration"`
}

// RunFailedEvent payload
type RunFailedEvent struct {
	Error            string `json:"error"`
	WalletsProcessed int    `json:"wallets_processed"`
}

// HighErrorRateEvent payload
type HighErrorRateEvent struct {
	ErrorRate float64 `json:"error_rate"`
	Threshold float64 `json:"threshold"`
	Errors    int     `json:"errors"`
}

// HighDiscrepancyRateEvent payload
type HighDiscrepancyRateEvent struct {
	DiscrepancyRate    float64 `json:"discrepancy_rate"`
	Threshold          float64 `json:"threshold"`
	DiscrepanciesFound int     `json:"discrepancies_found"`
}

// EmergencyReconcileEvent payload
type EmergencyReconcileEvent struct {
	WalletID   string `json:"wallet_id"`
	Reason     string `json:"reason"`
	OldBalance string `json:"old_balance"`
	NewBalance string `json:"new_balance"`
	Drift      string `json:"drift"`
}
