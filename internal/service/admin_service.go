package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitty/internal/auth"
	"github.com/mmynk/splitty/internal/middleware"
	"github.com/mmynk/splitty/internal/storage"
	"github.com/mmynk/splitty/pkg/api"
	"github.com/mmynk/splitty/pkg/api/apiconnect"
)

var _ apiconnect.AdminServiceHandler = (*AdminService)(nil)

// AdminService implements the AdminService RPC interface.
// Every call except Login expects the RequireAuth interceptor in front of it.
type AdminService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.EventStore
	logger        *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.EventStore, logger *slog.Logger) *AdminService {
	return &AdminService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Login checks the admin password and returns a JWT token.
func (s *AdminService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request")

	if req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	id, err := s.authenticator.Authenticate(ctx, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, expiresAt, err := s.jwtManager.Generate(id)
	if err != nil {
		s.logger.Error("Failed to generate token", "subject", id.Subject, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Admin logged in", "subject", id.Subject, "role", id.Role)
	return connect.NewResponse(&api.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

// ListEvents returns all events, most recently updated first.
func (s *AdminService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	s.logger.Info("ListEvents request", "subject", middleware.GetSubject(ctx))

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		s.logger.Error("ListEvents failed", "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListEventsResponse{Events: make([]*api.Event, len(events))}
	for i, e := range events {
		resp.Events[i] = toAPIEvent(e)
	}
	return connect.NewResponse(resp), nil
}

// DeleteEvent deletes an event with its participants and ledger.
func (s *AdminService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	s.logger.Info("DeleteEvent request", "event_id", req.Msg.EventID, "subject", middleware.GetSubject(ctx))

	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}
	if err := s.store.DeleteEvent(ctx, req.Msg.EventID); err != nil {
		s.logger.Error("DeleteEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Event deleted", "event_id", req.Msg.EventID)
	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}
