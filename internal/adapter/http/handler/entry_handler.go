package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venduo/walletledger/internal/adapter/http/dto"
	"github.com/venduo/walletledger/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	Credit(ctx context.Context, input usecase.ApplyEntryInput) (*usecase.ApplyEntryResult, error)
	Debit(ctx context.Context, input usecase.ApplyEntryInput) (*usecase.ApplyEntryResult, error)
}

// EntryHandler handles credit and debit requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Credit applies a CREDIT_* entry to a wallet.
func (h *EntryHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.entryUC.Credit)
}

// Debit applies a DEBIT_* entry to a wallet.
func (h *EntryHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.entryUC.Debit)
}

func (h *EntryHandler) apply(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, input usecase.ApplyEntryInput) (*usecase.ApplyEntryResult, error),
) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.ApplyEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := op(r.Context(), req.ToUseCaseInput(walletID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply entry", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.ApplyEntryFromResult(result))
}
