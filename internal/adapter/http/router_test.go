package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/venduo/walletledger/internal/adapter/http/handler"
	apimiddleware "github.com/venduo/walletledger/internal/adapter/http/middleware"
	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Hour
	}))

	body := `{"tenant_id":"tenant-1","type":"platform","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/wallets/",
		"GET /api/v1/wallets/",
		"GET /api/v1/wallets/{id}",
		"PUT /api/v1/wallets/{id}/status",
		"POST /api/v1/wallets/{id}/credit",
		"POST /api/v1/wallets/{id}/debit",
		"POST /api/v1/wallets/{id}/holds",
		"POST /api/v1/wallets/{id}/holds/{holdID}/release",
		"POST /api/v1/wallets/{id}/holds/{holdID}/capture",
		"GET /api/v1/wallets/{id}/entries",
		"POST /api/v1/wallets/{id}/recalculate",
		"POST /api/v1/transfers",
		"GET /api/v1/entries/{id}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		WalletHandler:    handler.NewWalletHandler(&stubWalletService{}),
		EntryHandler:     handler.NewEntryHandler(&stubEntryService{}),
		HoldHandler:      handler.NewHoldHandler(&stubHoldService{}),
		TransferHandler:  handler.NewTransferHandler(&stubTransferService{}),
		LedgerHandler:    handler.NewLedgerHandler(&stubLedgerService{}),
		ReconcileHandler: handler.NewReconcileHandler(&stubReconcileService{}),
		HealthHandler:    &handler.HealthHandler{},
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubWalletService struct{}

func (stubWalletService) GetOrCreateWallet(ctx context.Context, input usecase.GetOrCreateWalletInput) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "wal"}, nil
}

func (stubWalletService) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return &domain.Wallet{ID: id}, nil
}

func (stubWalletService) UpdateWalletStatus(ctx context.Context, id string, status domain.WalletStatus) (*domain.Wallet, error) {
	return &domain.Wallet{ID: id, Status: status}, nil
}

func (stubWalletService) ListWallets(ctx context.Context, tenantID string, limit, offset int) ([]*domain.Wallet, error) {
	return []*domain.Wallet{}, nil
}

type stubEntryService struct{}

func (stubEntryService) Credit(ctx context.Context, input usecase.ApplyEntryInput) (*usecase.ApplyEntryResult, error) {
	return &usecase.ApplyEntryResult{Entry: &domain.Entry{}, Wallet: &domain.Wallet{}}, nil
}

func (stubEntryService) Debit(ctx context.Context, input usecase.ApplyEntryInput) (*usecase.ApplyEntryResult, error) {
	return &usecase.ApplyEntryResult{Entry: &domain.Entry{}, Wallet: &domain.Wallet{}}, nil
}

type stubHoldService struct{}

func (stubHoldService) CreateHold(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error) {
	return &usecase.ApplyEntryResult{Entry: &domain.Entry{}, Wallet: &domain.Wallet{}}, nil
}

func (stubHoldService) ReleaseHold(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error) {
	return &usecase.ApplyEntryResult{Entry: &domain.Entry{}, Wallet: &domain.Wallet{}}, nil
}

func (stubHoldService) CaptureHold(ctx context.Context, input usecase.HoldInput) (*usecase.ApplyEntryResult, error) {
	return &usecase.ApplyEntryResult{Entry: &domain.Entry{}, Wallet: &domain.Wallet{}}, nil
}

type stubTransferService struct{}

func (stubTransferService) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
	return &usecase.TransferResult{
		DebitEntry: &domain.Entry{},
		FromWallet: &domain.Wallet{},
		ToWallet:   &domain.Wallet{},
	}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) GetLedgerEntries(ctx context.Context, walletID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	return []*domain.Entry{}, nil
}

func (stubLedgerService) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return &domain.Entry{ID: id}, nil
}

type stubReconcileService struct{}

func (stubReconcileService) Recalculate(ctx context.Context, walletID string) (*usecase.RecalculateResult, error) {
	return &usecase.RecalculateResult{WalletID: walletID}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
