package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitty/pkg/api"
)

// AdminServiceName is the fully-qualified name of the AdminService.
const AdminServiceName = "splitty.v1.AdminService"

// Procedure paths of the AdminService.
const (
	AdminServiceLoginProcedure       = "/splitty.v1.AdminService/Login"
	AdminServiceListEventsProcedure  = "/splitty.v1.AdminService/ListEvents"
	AdminServiceDeleteEventProcedure = "/splitty.v1.AdminService/DeleteEvent"
)

// AdminServiceHandler is implemented by the server side of the AdminService.
// All calls except Login require an admin token.
type AdminServiceHandler interface {
	// Login exchanges the admin password for a bearer token.
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	// ListEvents lists all events, most recently updated first.
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	// DeleteEvent deletes an event together with its ledger.
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
}

// NewAdminServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(AdminServiceLoginProcedure, connect.NewUnaryHandler(AdminServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AdminServiceListEventsProcedure, connect.NewUnaryHandler(AdminServiceListEventsProcedure, svc.ListEvents, opts...))
	mux.Handle(AdminServiceDeleteEventProcedure, connect.NewUnaryHandler(AdminServiceDeleteEventProcedure, svc.DeleteEvent, opts...))
	return "/" + AdminServiceName + "/", mux
}

// AdminServiceClient is a client for the AdminService.
type AdminServiceClient interface {
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
}

// NewAdminServiceClient constructs a client for the AdminService at baseURL
// (e.g. http://localhost:8080).
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &adminServiceClient{
		login:       connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AdminServiceLoginProcedure, opts...),
		listEvents:  connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+AdminServiceListEventsProcedure, opts...),
		deleteEvent: connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](httpClient, baseURL+AdminServiceDeleteEventProcedure, opts...),
	}
}

type adminServiceClient struct {
	login       *connect.Client[api.LoginRequest, api.LoginResponse]
	listEvents  *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	deleteEvent *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
}

func (c *adminServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *adminServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *adminServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}
