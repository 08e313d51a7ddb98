package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitty/internal/auth"
	"github.com/mmynk/splitty/internal/exchange"
	"github.com/mmynk/splitty/internal/money"
	"github.com/mmynk/splitty/internal/storage"
)

var (
	errRatesUnavailable = errors.New("exchange rates are not configured")
	errUnknownDebt      = errors.New("no such debt in the current settlement plan")
	errSettlementEdit   = errors.New("settlements cannot be edited; delete the settlement instead")
)

// invalidArgument builds a CodeInvalidArgument error from a message.
func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, exchange.ErrRatesNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrOverflow),
		errors.Is(err, exchange.ErrUnknownCurrency):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, errUnknownDebt):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, errRatesUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
