package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WalletErrorResponse represents one per-wallet failure in a run.
type WalletErrorResponse struct {
	At       time.Time `json:"at"`
	WalletID string    `json:"wallet_id"`
	Message  string    `json:"message"`
}

// RunResultResponse represents the aggregate numbers of a run.
type RunResultResponse struct {
	WalletsProcessed   int                   `json:"wallets_processed"`
	DiscrepanciesFound int                   `json:"discrepancies_found"`
	DiscrepanciesFixed int                   `json:"discrepancies_fixed"`
	TotalDriftAmount   decimal.Decimal       `json:"total_drift_amount"`
	DurationMS         int64                 `json:"duration_ms"`
	ErrorRate          float64               `json:"error_rate"`
	DiscrepancyRate    float64               `json:"discrepancy_rate"`
	Errors             []WalletErrorResponse `json:"errors,omitempty"`
}

// ReconcileResponse represents a finished reconciliation run.
type ReconcileResponse struct {
	RunID   string             `json:"run_id"`
	Status  domain.RunStatus   `json:"status"`
	Message string             `json:"message"`
	DryRun  bool               `json:"dry_run"`
	Success bool               `json:"success"`
	Result  *RunResultResponse `json:"result,omitempty"`
}

// ReconcileFromOutcome converts a use case outcome to a response.
func ReconcileFromOutcome(o *usecase.ReconcileOutcome) *ReconcileResponse {
	resp := &ReconcileResponse{
		RunID:   o.RunID,
		Status:  o.Status,
		Message: o.Message,
		DryRun:  o.DryRun,
		Success: o.Success,
	}

	if o.Result != nil {
		result := &RunResultResponse{
			WalletsProcessed:   o.Result.WalletsProcessed,
			DiscrepanciesFound: o.Result.DiscrepanciesFound,
			DiscrepanciesFixed: o.Result.DiscrepanciesFixed,
			TotalDriftAmount:   o.Result.TotalDriftAmount,
			DurationMS:         o.Result.Duration.Milliseconds(),
			ErrorRate:          o.Result.ErrorRate(),
			DiscrepancyRate:    o.Result.DiscrepancyRate(),
		}
		for _, e := range o.Result.Errors {
			result.Errors = append(result.Errors, WalletErrorResponse{
				At:       e.At,
				WalletID: e.WalletID,
				Message:  e.Message,
			})
		}
		resp.Result = result
	}

	return resp
}

// EmergencyResponse represents a single-wallet emergency reconciliation.
type EmergencyResponse struct {
	WalletID   string          `json:"wallet_id"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Drift      decimal.Decimal `json:"drift"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// EmergencyFromOutcome converts a use case outcome to a response.
func EmergencyFromOutcome(walletID string, o *usecase.EmergencyOutcome) *EmergencyResponse {
	return &EmergencyResponse{
		WalletID:   walletID,
		OldBalance: o.OldBalance,
		NewBalance: o.NewBalance,
		Drift:      o.Drift,
		Message:    o.Message,
		Success:    o.Success,
	}
}
