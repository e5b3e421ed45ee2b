package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/venduo/walletledger/internal/adapter/http/dto"
	"github.com/venduo/walletledger/internal/usecase"
)

// ReconcileService defines the behavior needed by ReconcileHandler.
type ReconcileService interface {
	Recalculate(ctx context.Context, walletID string) (*usecase.RecalculateResult, error)
}

// ReconcileHandler triggers balance recalculation from the ledger.
type ReconcileHandler struct {
	reconcileUC ReconcileService
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(reconcileUC ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{reconcileUC: reconcileUC}
}

// Recalculate replays a wallet's ledger and repairs the cached balances.
func (h *ReconcileHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	if walletID == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	result, err := h.reconcileUC.Recalculate(r.Context(), walletID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to recalculate wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateFromResult(result))
}
