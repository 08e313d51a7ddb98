package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitty/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitty.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceCreateEventProcedure       = "/splitty.v1.LedgerService/CreateEvent"
	LedgerServiceGetEventProcedure          = "/splitty.v1.LedgerService/GetEvent"
	LedgerServiceGetEventByInviteProcedure  = "/splitty.v1.LedgerService/GetEventByInvite"
	LedgerServiceUpdateEventProcedure       = "/splitty.v1.LedgerService/UpdateEvent"
	LedgerServiceAddParticipantProcedure    = "/splitty.v1.LedgerService/AddParticipant"
	LedgerServiceListParticipantsProcedure  = "/splitty.v1.LedgerService/ListParticipants"
	LedgerServiceUpdateParticipantProcedure = "/splitty.v1.LedgerService/UpdateParticipant"
	LedgerServiceRemoveParticipantProcedure = "/splitty.v1.LedgerService/RemoveParticipant"
	LedgerServiceAddExpenseProcedure        = "/splitty.v1.LedgerService/AddExpense"
	LedgerServiceListExpensesProcedure      = "/splitty.v1.LedgerService/ListExpenses"
	LedgerServiceUpdateExpenseProcedure     = "/splitty.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure     = "/splitty.v1.LedgerService/DeleteExpense"
	LedgerServiceGetBalancesProcedure       = "/splitty.v1.LedgerService/GetBalances"
	LedgerServiceGetDebtsProcedure          = "/splitty.v1.LedgerService/GetDebts"
	LedgerServiceSettleDebtProcedure        = "/splitty.v1.LedgerService/SettleDebt"
	LedgerServiceConvertAmountProcedure     = "/splitty.v1.LedgerService/ConvertAmount"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
// Calls need no authentication.
type LedgerServiceHandler interface {
	// CreateEvent creates a new event.
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	// GetEvent retrieves an event by ID.
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	// GetEventByInvite retrieves an event by its invite code.
	GetEventByInvite(context.Context, *connect.Request[api.GetEventByInviteRequest]) (*connect.Response[api.GetEventByInviteResponse], error)
	// UpdateEvent changes the title of an event.
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	// AddParticipant adds a participant to an event.
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	// ListParticipants lists the participants of an event.
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	// UpdateParticipant changes the name and payment details of a participant.
	UpdateParticipant(context.Context, *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error)
	// RemoveParticipant removes a participant, keeping their ledger entries.
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	// AddExpense appends an expense to an event's ledger.
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	// ListExpenses returns the ledger of an event, oldest first.
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	// UpdateExpense edits an expense in place.
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	// DeleteExpense removes an expense from its ledger.
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	// GetBalances computes the net balance of every participant of an event.
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	// GetDebts computes the transfers that settle an event.
	GetDebts(context.Context, *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error)
	// SettleDebt records the payment of one of the event's current debts.
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	// ConvertAmount converts a EUR amount into a display currency.
	ConvertAmount(context.Context, *connect.Request[api.ConvertAmountRequest]) (*connect.Response[api.ConvertAmountResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateEventProcedure, connect.NewUnaryHandler(LedgerServiceCreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(LedgerServiceGetEventProcedure, connect.NewUnaryHandler(LedgerServiceGetEventProcedure, svc.GetEvent, opts...))
	mux.Handle(LedgerServiceGetEventByInviteProcedure, connect.NewUnaryHandler(LedgerServiceGetEventByInviteProcedure, svc.GetEventByInvite, opts...))
	mux.Handle(LedgerServiceUpdateEventProcedure, connect.NewUnaryHandler(LedgerServiceUpdateEventProcedure, svc.UpdateEvent, opts...))
	mux.Handle(LedgerServiceAddParticipantProcedure, connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(LedgerServiceListParticipantsProcedure, connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(LedgerServiceUpdateParticipantProcedure, connect.NewUnaryHandler(LedgerServiceUpdateParticipantProcedure, svc.UpdateParticipant, opts...))
	mux.Handle(LedgerServiceRemoveParticipantProcedure, connect.NewUnaryHandler(LedgerServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	mux.Handle(LedgerServiceAddExpenseProcedure, connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceUpdateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(LedgerServiceDeleteExpenseProcedure, connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(LedgerServiceGetDebtsProcedure, connect.NewUnaryHandler(LedgerServiceGetDebtsProcedure, svc.GetDebts, opts...))
	mux.Handle(LedgerServiceSettleDebtProcedure, connect.NewUnaryHandler(LedgerServiceSettleDebtProcedure, svc.SettleDebt, opts...))
	mux.Handle(LedgerServiceConvertAmountProcedure, connect.NewUnaryHandler(LedgerServiceConvertAmountProcedure, svc.ConvertAmount, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	GetEventByInvite(context.Context, *connect.Request[api.GetEventByInviteRequest]) (*connect.Response[api.GetEventByInviteResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	UpdateParticipant(context.Context, *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetDebts(context.Context, *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error)
	SettleDebt(context.Context, *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error)
	ConvertAmount(context.Context, *connect.Request[api.ConvertAmountRequest]) (*connect.Response[api.ConvertAmountResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		createEvent:       connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+LedgerServiceCreateEventProcedure, opts...),
		getEvent:          connect.NewClient[api.GetEventRequest, api.GetEventResponse](httpClient, baseURL+LedgerServiceGetEventProcedure, opts...),
		getEventByInvite:  connect.NewClient[api.GetEventByInviteRequest, api.GetEventByInviteResponse](httpClient, baseURL+LedgerServiceGetEventByInviteProcedure, opts...),
		updateEvent:       connect.NewClient[api.UpdateEventRequest, api.UpdateEventResponse](httpClient, baseURL+LedgerServiceUpdateEventProcedure, opts...),
		addParticipant:    connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		listParticipants:  connect.NewClient[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		updateParticipant: connect.NewClient[api.UpdateParticipantRequest, api.UpdateParticipantResponse](httpClient, baseURL+LedgerServiceUpdateParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+LedgerServiceRemoveParticipantProcedure, opts...),
		addExpense:        connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		listExpenses:      connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		updateExpense:     connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:     connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getDebts:          connect.NewClient[api.GetDebtsRequest, api.GetDebtsResponse](httpClient, baseURL+LedgerServiceGetDebtsProcedure, opts...),
		settleDebt:        connect.NewClient[api.SettleDebtRequest, api.SettleDebtResponse](httpClient, baseURL+LedgerServiceSettleDebtProcedure, opts...),
		convertAmount:     connect.NewClient[api.ConvertAmountRequest, api.ConvertAmountResponse](httpClient, baseURL+LedgerServiceConvertAmountProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createEvent       *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	getEvent          *connect.Client[api.GetEventRequest, api.GetEventResponse]
	getEventByInvite  *connect.Client[api.GetEventByInviteRequest, api.GetEventByInviteResponse]
	updateEvent       *connect.Client[api.UpdateEventRequest, api.UpdateEventResponse]
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	listParticipants  *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	updateParticipant *connect.Client[api.UpdateParticipantRequest, api.UpdateParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	addExpense        *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	listExpenses      *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	updateExpense     *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense     *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getDebts          *connect.Client[api.GetDebtsRequest, api.GetDebtsResponse]
	settleDebt        *connect.Client[api.SettleDebtRequest, api.SettleDebtResponse]
	convertAmount     *connect.Client[api.ConvertAmountRequest, api.ConvertAmountResponse]
}

func (c *ledgerServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetEventByInvite(ctx context.Context, req *connect.Request[api.GetEventByInviteRequest]) (*connect.Response[api.GetEventByInviteResponse], error) {
	return c.getEventByInvite.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	return c.updateEvent.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	return c.updateParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDebts(ctx context.Context, req *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error) {
	return c.getDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ConvertAmount(ctx context.Context, req *connect.Request[api.ConvertAmountRequest]) (*connect.Response[api.ConvertAmountResponse], error) {
	return c.convertAmount.CallUnary(ctx, req)
}
