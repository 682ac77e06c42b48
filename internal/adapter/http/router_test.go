package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/handler"
	apimiddleware "github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/middleware"
	"github.com/gigsy2025/gigsy-reconciler/internal/domain"
	"github.com/gigsy2025/gigsy-reconciler/internal/usecase"
)

type stubService struct{}

func (stubService) Reconcile(context.Context, usecase.ReconcileInput) *usecase.ReconcileOutcome {
	return &usecase.ReconcileOutcome{
		RunID:   "run-1",
		Status:  domain.RunStatusCompleted,
		Success: true,
	}
}

func (stubService) EmergencyReconcile(context.Context, string, string) (*usecase.EmergencyOutcome, error) {
	return &usecase.EmergencyOutcome{Success: true}, nil
}

type stubHealthService struct{}

func (stubHealthService) HealthCheck(context.Context) *usecase.HealthStatus {
	return &usecase.HealthStatus{Healthy: true}
}

type stubIdempotencyStore struct {
	checked bool
}

func (s *stubIdempotencyStore) CheckAndSet(context.Context, string, []byte, time.Duration) (bool, []byte, error) {
	s.checked = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(context.Context, string, []byte, time.Duration) error {
	return nil
}

func newRouterConfig(opts ...func(cfg *RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		ReconcileHandler: handler.NewReconcileHandler(stubService{}),
		HealthHandler:    handler.NewHealthHandler(stubHealthService{}, nil, nil),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ReconciliationRoutesWired(t *testing.T) {
	router := NewRouter(newRouterConfig())

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/reconciliation/runs"},
		{http.MethodPost, "/api/v1/reconciliation/wallets/w1/emergency"},
		{http.MethodGet, "/api/v1/reconciliation/health"},
	}

	for _, rt := range routes {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(rt.method, rt.path, http.NoBody)
		router.ServeHTTP(rec, req)

		if rec.Code == http.StatusNotFound || rec.Code == http.StatusMethodNotAllowed {
			t.Fatalf("expected %s %s to be routed, got %d", rt.method, rt.path, rec.Code)
		}
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Idempotency = apimiddleware.NewIdempotencyMiddleware(store, time.Hour)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliation/runs", http.NoBody)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-1")
	router.ServeHTTP(rec, req)

	if !store.checked {
		t.Fatalf("expected idempotency store to be consulted")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
