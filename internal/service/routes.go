package service

import (
	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	"github.com/mmynk/splitty/internal/auth"
	"github.com/mmynk/splitty/internal/metrics"
	"github.com/mmynk/splitty/internal/middleware"
	"github.com/mmynk/splitty/pkg/api/apiconnect"
)

// Mount registers both RPC services on r. Admin calls other than Login require a
// bearer token issued by jwtManager. Every call is logged and counted on m.
func Mount(r chi.Router, ledger *LedgerService, admin *AdminService, jwtManager *auth.JWTManager, m *metrics.Metrics) {
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(ledger,
		connect.WithInterceptors(middleware.LoggingInterceptor(m)),
	)
	r.Mount(ledgerPath, ledgerHandler)

	adminPath, adminHandler := apiconnect.NewAdminServiceHandler(admin,
		connect.WithInterceptors(
			middleware.RequireAuth(jwtManager, apiconnect.AdminServiceLoginProcedure),
			middleware.LoggingInterceptor(m),
		),
	)
	r.Mount(adminPath, adminHandler)
}
