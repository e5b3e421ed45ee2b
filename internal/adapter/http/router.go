package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/venduo/walletledger/internal/adapter/http/handler"
	"github.com/venduo/walletledger/internal/adapter/http/middleware"
	"github.com/venduo/walletledger/internal/infrastructure/metrics"
	"github.com/venduo/walletledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	WalletHandler    *handler.WalletHandler
	EntryHandler     *handler.EntryHandler
	HoldHandler      *handler.HoldHandler
	TransferHandler  *handler.TransferHandler
	LedgerHandler    *handler.LedgerHandler
	ReconcileHandler *handler.ReconcileHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", cfg.WalletHandler.GetOrCreate)
			r.Get("/", cfg.WalletHandler.List)
			r.Get("/{id}", cfg.WalletHandler.Get)
			r.Put("/{id}/status", cfg.WalletHandler.UpdateStatus)

			r.Post("/{id}/credit", cfg.EntryHandler.Credit)
			r.Post("/{id}/debit", cfg.EntryHandler.Debit)

			r.Post("/{id}/holds", cfg.HoldHandler.Create)
			r.Post("/{id}/holds/{holdID}/release", cfg.HoldHandler.Release)
			r.Post("/{id}/holds/{holdID}/capture", cfg.HoldHandler.Capture)

			r.Get("/{id}/entries", cfg.LedgerHandler.ListEntries)
			r.Post("/{id}/recalculate", cfg.ReconcileHandler.Recalculate)
		})

		// Transfers
		r.Post("/transfers", cfg.TransferHandler.Create)

		// Ledger entries
		r.Get("/entries/{id}", cfg.LedgerHandler.GetEntry)
	})

	return r
}
