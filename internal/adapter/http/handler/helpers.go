package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/dto"
	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidWalletID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCurrency):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidBatchSize):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReconciliationInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
