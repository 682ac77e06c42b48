package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/dto"
	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

// ReconcileService is the use case surface the handler depends on.
type ReconcileService interface {
	Reconcile(ctx context.Context, input usecase.ReconcileInput) *usecase.ReconcileOutcome
	EmergencyReconcile(ctx context.Context, walletID, reason string) (*usecase.EmergencyOutcome, error)
}

// ReconcileHandler handles reconciliation HTTP requests.
type ReconcileHandler struct {
	service ReconcileService
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(service ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

// Run starts a reconciliation run and blocks until it finishes.
// The run always produces a structured result; a failed run is reported
// with status 200 and success=false rather than a bare error.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.BatchSize < 0 || req.BatchSize > domain.MaxBatchSize {
		writeError(w, http.StatusBadRequest, "invalid batch size", domain.ErrInvalidBatchSize.Error())
		return
	}

	for _, id := range req.WalletIDs {
		if err := domain.ValidateWalletID(id); err != nil {
			writeError(w, http.StatusBadRequest, "invalid wallet ID", err.Error())
			return
		}
	}

	outcome := h.service.Reconcile(r.Context(), req.ToUseCaseInput())

	writeJSON(w, http.StatusOK, dto.ReconcileFromOutcome(outcome))
}

// Emergency reconciles a single wallet immediately.
func (h *ReconcileHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if err := domain.ValidateWalletID(walletID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid wallet ID", err.Error())
		return
	}

	var req dto.EmergencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Reason == "" {
		req.Reason = "manual emergency reconciliation"
	}

	outcome, err := h.service.EmergencyReconcile(r.Context(), walletID, req.Reason)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "emergency reconciliation failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EmergencyFromOutcome(walletID, outcome))
}
