package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitty/internal/auth"
	"github.com/mmynk/splitty/internal/exchange"
	"github.com/mmynk/splitty/internal/metrics"
	"github.com/mmynk/splitty/internal/storage/sqlite"
	"github.com/mmynk/splitty/pkg/api/apiconnect"
)

const testAdminPassword = "letmein-please"

// fixedRates serves the same rates for every day.
type fixedRates struct{}

func (fixedRates) Rates(_ context.Context, date time.Time) (*exchange.Rates, error) {
	return &exchange.Rates{
		Date: date.Format(exchange.DateLayout),
		Base: exchange.BaseCurrency,
		Rates: map[string]decimal.Decimal{
			"eur": decimal.NewFromInt(1),
			"usd": decimal.RequireFromString("1.0842"),
			"chf": decimal.RequireFromString("0.9555"),
			"gbp": decimal.RequireFromString("0.8567"),
		},
	}, nil
}

type testServer struct {
	ledger  apiconnect.LedgerServiceClient
	admin   apiconnect.AdminServiceClient
	metrics *metrics.Metrics
	service *LedgerService
}

// setupTestServer starts both services over HTTP against a fresh SQLite database.
func setupTestServer(t *testing.T, rates exchange.Source) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authenticator, err := auth.NewPasswordAuthenticator(testAdminPassword)
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := NewLedgerService(store, rates, m)
	r := chi.NewRouter()
	Mount(r,
		ledger,
		NewAdminService(authenticator, jwtManager, store, logger),
		jwtManager,
		m,
	)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testServer{
		ledger:  apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		admin:   apiconnect.NewAdminServiceClient(http.DefaultClient, server.URL),
		metrics: m,
		service: ledger,
	}
}

// expectCode fails the test unless err is a Connect error with the given code.
func expectCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T: %v", err, err)
	}
	if connectErr.Code() != code {
		t.Fatalf("expected %v, got %v: %v", code, connectErr.Code(), connectErr.Message())
	}
}
