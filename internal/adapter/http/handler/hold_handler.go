package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venduo/walletledger/internal/adapter/http/dto"
	"github.com/venduo/walletledger/internal/usecase"
)

// HoldService defines the behavior needed by HoldHandler.
type HoldService interface {
	CreateHold(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error)
	ReleaseHold(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error)
	CaptureHold(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error)
}

// HoldHandler handles hold lifecycle requests.
type HoldHandler struct {
	holdUC HoldService
}

// NewHoldHandler creates a new HoldHandler.
func NewHoldHandler(holdUC HoldService) *HoldHandler {
	return &HoldHandler{holdUC: holdUC}
}

// Create reserves funds on a wallet.
func (h *HoldHandler) Create(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	var req dto.CreateHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.holdUC.CreateHold(r.Context(), req.ToUseCaseInput(walletID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create hold", err.Error())
		return
	}

	writeJSON(w, holdStatus(result), dto.ApplyEntryFromResult(result))
}

// Release cancels a hold and returns the held funds.
func (h *HoldHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.holdUC.ReleaseHold, "failed to release hold")
}

// Capture converts held funds into a debit.
func (h *HoldHandler) Capture(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.holdUC.CaptureHold, "failed to capture hold")
}

func (h *HoldHandler) settle(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error),
	failMsg string,
) {
	walletID := chi.URLParam(r, "id")
	holdID := chi.URLParam(r, "holdID")
	if walletID == "" || holdID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet or hold ID", "")
		return
	}

	// An empty body means settle for the full held amount.
	var req dto.SettleHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := op(r.Context(), req.ToUseCaseInput(walletID, holdID))
	if err != nil {
		writeError(w, mapDomainError(err), failMsg, err.Error())
		return
	}

	writeJSON(w, holdStatus(result), dto.ApplyEntryFromResult(result))
}

func holdStatus(result *usecase.ApplyEntryResult) int {
	if result.Duplicate {
		return http.StatusOK
	}
	return http.StatusCreated
}
