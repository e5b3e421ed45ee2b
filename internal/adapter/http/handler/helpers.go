package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/venduo/walletledger/internal/adapter/http/dto"
	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
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
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrHoldNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientAvailableBalance),
		errors.Is(err, domain.ErrInsufficientPendingBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWalletInactive),
		errors.Is(err, domain.ErrWalletClosed),
		errors.Is(err, domain.ErrHoldAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSameWallet),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrEntryTypeNotAllowed),
		errors.Is(err, domain.ErrMissingIdempotencyKey),
		errors.Is(err, domain.ErrInvalidWalletType),
		errors.Is(err, domain.ErrInvalidOwnerRef),
		errors.Is(err, domain.ErrInvalidTenant),
		errors.Is(err, domain.ErrMetadataTooLarge),
		errors.Is(err, usecase.ErrMissingHoldID),
		errors.Is(err, usecase.ErrInvalidStatusTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
