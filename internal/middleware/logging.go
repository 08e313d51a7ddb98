package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitty/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs and counts every RPC call.
// Client mistakes (invalid argument, not found, ...) are logged at WARN, server
// failures at ERROR. m may be nil.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := connect.CodeOf(err)
			m.ObserveRPC(procedure, codeLabel(err, code), start)

			attrs := []any{
				"procedure", procedure,
				"subject", GetSubject(ctx), // empty for ledger calls
				"duration_ms", time.Since(start).Milliseconds(),
			}
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && !serverFault(code):
				slog.Warn("RPC rejected", append(attrs, "code", code.String(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC failed", append(attrs, "code", code.String(), "error", err)...)
			}

			return resp, err
		}
	}
}

func codeLabel(err error, code connect.Code) string {
	if err == nil {
		return "ok"
	}
	return code.String()
}

func serverFault(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
