package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitty/internal/calculator"
	"github.com/mmynk/splitty/internal/exchange"
	"github.com/mmynk/splitty/internal/metrics"
	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/internal/money"
	"github.com/mmynk/splitty/internal/storage"
	"github.com/mmynk/splitty/pkg/api"
	"github.com/mmynk/splitty/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: events, participants, expenses,
// and the balances and debts derived from them.
type LedgerService struct {
	store   storage.Store
	rates   exchange.Source
	metrics *metrics.Metrics
	now     func() time.Time

	// locks serializes ledger writes per event so a debt cannot be paid twice and the
	// ledger total is checked against what is actually stored.
	locks eventLocks
}

// NewLedgerService creates a LedgerService. rates and m may be nil; without rates,
// requests for a display currency fail with CodeUnavailable.
func NewLedgerService(store storage.Store, rates exchange.Source, m *metrics.Metrics) *LedgerService {
	return &LedgerService{
		store:   store,
		rates:   rates,
		metrics: m,
		now:     time.Now,
	}
}

// CreateEvent creates a new event. An empty title gets a generated one.
func (s *LedgerService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	slog.Info("CreateEvent request received", "title", req.Msg.Title)

	event := &models.Event{Title: strings.TrimSpace(req.Msg.Title)}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event created", "event_id", event.ID)
	return connect.NewResponse(&api.CreateEventResponse{Event: toAPIEvent(event)}), nil
}

// GetEvent retrieves an event by ID.
func (s *LedgerService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	slog.Info("GetEvent request received", "event_id", req.Msg.EventID)

	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetEventResponse{Event: toAPIEvent(event)}), nil
}

// GetEventByInvite retrieves an event by its invite code. Codes are matched
// case-insensitively.
func (s *LedgerService) GetEventByInvite(ctx context.Context, req *connect.Request[api.GetEventByInviteRequest]) (*connect.Response[api.GetEventByInviteResponse], error) {
	slog.Info("GetEventByInvite request received", "invite_code", req.Msg.InviteCode)

	code := strings.ToUpper(strings.TrimSpace(req.Msg.InviteCode))
	if code == "" {
		return nil, invalidArgument("invite_code required")
	}

	event, err := s.store.GetEventByInviteCode(ctx, code)
	if err != nil {
		slog.Warn("GetEventByInvite failed", "invite_code", code, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetEventByInviteResponse{Event: toAPIEvent(event)}), nil
}

// UpdateEvent renames an event.
func (s *LedgerService) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	slog.Info("UpdateEvent request received", "event_id", req.Msg.EventID, "title", req.Msg.Title)

	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}
	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, invalidArgument("title required")
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("UpdateEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	event.Title = title
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		slog.Error("UpdateEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event updated", "event_id", event.ID)
	return connect.NewResponse(&api.UpdateEventResponse{Event: toAPIEvent(event)}), nil
}

// AddParticipant adds a participant to an existing event.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "event_id", req.Msg.EventID, "name", req.Msg.Name)

	if req.Msg.EventID == "" {
		return nil, invalidArgument("event_id required")
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	participant := &models.Participant{
		EventID: req.Msg.EventID,
		Name:    name,
		Email:   strings.TrimSpace(req.Msg.Email),
		IBAN:    normalizeIBAN(req.Msg.IBAN),
		BIC:     strings.ToUpper(strings.TrimSpace(req.Msg.BIC)),
	}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("AddParticipant failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "event_id", participant.EventID, "participant_id", participant.ID)
	return connect.NewResponse(&api.AddParticipantResponse{Participant: toAPIParticipant(participant)}), nil
}

// ListParticipants lists the current participants of an event.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	slog.Info("ListParticipants request received", "event_id", req.Msg.EventID)

	participants, err := s.participants(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	resp := &api.ListParticipantsResponse{Participants: make([]*api.Participant, len(participants))}
	for i, p := range participants {
		resp.Participants[i] = toAPIParticipant(p)
	}
	return connect.NewResponse(resp), nil
}

// UpdateParticipant replaces the name and payment details of a participant.
// The participant's ID, and therefore their ledger entries, stay the same.
func (s *LedgerService) UpdateParticipant(ctx context.Context, req *connect.Request[api.UpdateParticipantRequest]) (*connect.Response[api.UpdateParticipantResponse], error) {
	slog.Info("UpdateParticipant request received", "participant_id", req.Msg.ParticipantID, "name", req.Msg.Name)

	if req.Msg.ParticipantID == "" {
		return nil, invalidArgument("participant_id required")
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	participant, err := s.store.GetParticipant(ctx, req.Msg.ParticipantID)
	if err != nil {
		slog.Error("UpdateParticipant failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}
	participant.Name = name
	participant.Email = strings.TrimSpace(req.Msg.Email)
	participant.IBAN = normalizeIBAN(req.Msg.IBAN)
	participant.BIC = strings.ToUpper(strings.TrimSpace(req.Msg.BIC))

	if err := s.store.UpdateParticipant(ctx, participant); err != nil {
		slog.Error("UpdateParticipant failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant updated", "event_id", participant.EventID, "participant_id", participant.ID)
	return connect.NewResponse(&api.UpdateParticipantResponse{Participant: toAPIParticipant(participant)}), nil
}

// RemoveParticipant removes a participant. Expenses they paid or owe stay in the ledger.
func (s *LedgerService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received", "participant_id", req.Msg.ParticipantID)

	if req.Msg.ParticipantID == "" {
		return nil, invalidArgument("participant_id required")
	}
	if err := s.store.RemoveParticipant(ctx, req.Msg.ParticipantID); err != nil {
		slog.Error("RemoveParticipant failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant removed", "participant_id", req.Msg.ParticipantID)
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// AddExpense validates and appends an expense to an event's ledger.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"event_id", req.Msg.EventID,
		"payer_id", req.Msg.PayerID,
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
		"owing_count", len(req.Msg.OwingIDs),
	)

	expense, err := s.buildExpense(ctx, req.Msg.EventID, expenseInput{
		payerID:  req.Msg.PayerID,
		amount:   req.Msg.Amount,
		currency: req.Msg.Currency,
		purpose:  req.Msg.Purpose,
		date:     req.Msg.Date,
		owingIDs: req.Msg.OwingIDs,
	})
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(req.Msg.EventID)
	defer unlock()

	expenses, err := s.ledger(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	if _, err := calculator.LedgerTotal(append(expenses, *expense)); err != nil {
		slog.Warn("AddExpense rejected", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "event_id", expense.EventID, "expense_id", expense.ID, "amount", expense.Amount.String())
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns the ledger of an event, oldest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "event_id", req.Msg.EventID)

	expenses, err := s.ledger(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	resp := &api.ListExpensesResponse{Expenses: make([]*api.Expense, len(expenses))}
	for i := range expenses {
		resp.Expenses[i] = toAPIExpense(&expenses[i])
	}
	return connect.NewResponse(resp), nil
}

// UpdateExpense edits an expense in place. It is validated like AddExpense; settlement
// entries cannot be edited, only deleted.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseID,
		"payer_id", req.Msg.PayerID,
		"amount", req.Msg.Amount,
		"currency", req.Msg.Currency,
	)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	if existing.IsSettlement {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errSettlementEdit)
	}

	expense, err := s.buildExpense(ctx, existing.EventID, expenseInput{
		payerID:  req.Msg.PayerID,
		amount:   req.Msg.Amount,
		currency: req.Msg.Currency,
		purpose:  req.Msg.Purpose,
		date:     req.Msg.Date,
		owingIDs: req.Msg.OwingIDs,
	})
	if err != nil {
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	unlock := s.locks.lock(existing.EventID)
	defer unlock()

	expenses, err := s.ledger(ctx, existing.EventID)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if expenses[i].ID == expense.ID {
			expenses[i] = *expense
		}
	}
	if _, err := calculator.LedgerTotal(expenses); err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "event_id", expense.EventID, "expense_id", expense.ID, "amount", expense.Amount.String())
	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense from its ledger.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// GetBalances returns the net balance of every participant, sorted by participant ID.
// Current participants without any expense are reported with a zero balance; removed
// participants still referenced by the ledger keep their balance.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "event_id", req.Msg.EventID, "currency", req.Msg.Currency)

	expenses, err := s.ledger(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	rates, currency, err := s.displayRates(ctx, req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}

	start := time.Now()
	balances := calculator.ComputeBalances(expenses)
	s.metrics.ObserveEngine("balances", start)

	for _, p := range participants {
		if _, ok := balances[p.ID]; !ok {
			balances[p.ID] = money.Zero
		}
	}

	resp := &api.GetBalancesResponse{
		Balances:  make([]*api.Balance, 0, len(balances)),
		Imbalance: calculator.Imbalance(balances).String(),
		Currency:  currency,
	}
	for _, id := range calculator.SortedIDs(balances) {
		balance := &api.Balance{ParticipantID: id, Amount: balances[id].String()}
		if rates != nil {
			converted, err := exchange.Convert(rates, balances[id], currency)
			if err != nil {
				return nil, toConnectError(err)
			}
			balance.Converted = converted.String()
		}
		resp.Balances = append(resp.Balances, balance)
	}
	if rates != nil {
		resp.RatesDate = rates.Date
	}

	slog.Info("GetBalances successful", "event_id", req.Msg.EventID, "count", len(resp.Balances), "imbalance", resp.Imbalance)
	return connect.NewResponse(resp), nil
}

// GetDebts returns the transfers that settle the event, in matching order.
func (s *LedgerService) GetDebts(ctx context.Context, req *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error) {
	slog.Info("GetDebts request received", "event_id", req.Msg.EventID, "currency", req.Msg.Currency)

	expenses, err := s.ledger(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	rates, currency, err := s.displayRates(ctx, req.Msg.Currency)
	if err != nil {
		return nil, toConnectError(err)
	}

	debts := s.computeDebts(expenses)

	resp := &api.GetDebtsResponse{Debts: make([]*api.Debt, len(debts)), Currency: currency}
	for i, d := range debts {
		debt := &api.Debt{From: d.From, To: d.To, Amount: d.Amount.String()}
		if rates != nil {
			converted, err := exchange.Convert(rates, d.Amount, currency)
			if err != nil {
				return nil, toConnectError(err)
			}
			debt.Converted = converted.String()
		}
		resp.Debts[i] = debt
	}
	if rates != nil {
		resp.RatesDate = rates.Date
	}

	slog.Info("GetDebts successful", "event_id", req.Msg.EventID, "count", len(debts))
	return connect.NewResponse(resp), nil
}

// SettleDebt records the payment of one of the debts GetDebts currently reports.
// The debt must match exactly; anything else is rejected with CodeFailedPrecondition.
func (s *LedgerService) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	slog.Info("SettleDebt request received",
		"event_id", req.Msg.EventID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount,
	)

	if req.Msg.From == "" || req.Msg.To == "" {
		return nil, invalidArgument("from and to required")
	}
	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	requested := models.Debt{From: req.Msg.From, To: req.Msg.To, Amount: amount}

	unlock := s.locks.lock(req.Msg.EventID)
	defer unlock()

	expenses, err := s.ledger(ctx, req.Msg.EventID)
	if err != nil {
		return nil, err
	}
	if !containsDebt(s.computeDebts(expenses), requested) {
		slog.Warn("SettleDebt rejected", "event_id", req.Msg.EventID, "from", requested.From, "to", requested.To)
		return nil, toConnectError(fmt.Errorf("%w: %s -> %s %s", errUnknownDebt, requested.From, requested.To, amount))
	}

	expense := calculator.RecordSettlement(requested)
	expense.EventID = req.Msg.EventID
	expense.Date = s.today()
	if _, err := calculator.LedgerTotal(append(expenses, expense)); err != nil {
		slog.Warn("SettleDebt rejected", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		slog.Error("SettleDebt failed", "event_id", req.Msg.EventID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.IncSettlements()

	slog.Info("Debt settled", "event_id", expense.EventID, "expense_id", expense.ID, "amount", amount.String())
	return connect.NewResponse(&api.SettleDebtResponse{Expense: toAPIExpense(&expense)}), nil
}

// ConvertAmount converts a EUR amount into a display currency using the rates of a day.
func (s *LedgerService) ConvertAmount(ctx context.Context, req *connect.Request[api.ConvertAmountRequest]) (*connect.Response[api.ConvertAmountResponse], error) {
	slog.Info("ConvertAmount request received", "date", req.Msg.Date, "amount", req.Msg.Amount, "currency", req.Msg.Currency)

	if strings.TrimSpace(req.Msg.Currency) == "" {
		return nil, invalidArgument("currency required")
	}
	date, err := s.parseDate(req.Msg.Date)
	if err != nil {
		return nil, err
	}
	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	rates, currency, err := s.ratesFor(ctx, req.Msg.Currency, date)
	if err != nil {
		return nil, toConnectError(err)
	}
	converted, err := exchange.Convert(rates, amount, currency)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ConvertAmountResponse{
		Amount:    converted.String(),
		Currency:  currency,
		RatesDate: rates.Date,
	}), nil
}

// ledger loads the expenses of an existing event as one snapshot.
func (s *LedgerService) ledger(ctx context.Context, eventID string) ([]models.Expense, error) {
	if eventID == "" {
		return nil, invalidArgument("event_id required")
	}
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		slog.Error("Failed to get event", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, eventID)
	if err != nil {
		slog.Error("Failed to list expenses", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}
	if _, err := calculator.LedgerTotal(expenses); err != nil {
		slog.Error("Ledger total out of range", "event_id", eventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return expenses, nil
}

// participants loads the participants of an existing event.
func (s *LedgerService) participants(ctx context.Context, eventID string) ([]*models.Participant, error) {
	if eventID == "" {
		return nil, invalidArgument("event_id required")
	}
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		slog.Error("Failed to get event", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}

	participants, err := s.store.ListParticipants(ctx, eventID)
	if err != nil {
		slog.Error("Failed to list participants", "event_id", eventID, "error", err)
		return nil, toConnectError(err)
	}
	return participants, nil
}

func (s *LedgerService) computeDebts(expenses []models.Expense) []models.Debt {
	start := time.Now()
	balances := calculator.ComputeBalances(expenses)
	s.metrics.ObserveEngine("balances", start)

	start = time.Now()
	debts := calculator.ComputeDebts(balances)
	s.metrics.ObserveEngine("debts", start)
	s.metrics.AddDebts(len(debts))

	return debts
}

// expenseInput holds the client-supplied fields of an expense.
type expenseInput struct {
	payerID  string
	amount   string
	currency string
	purpose  string
	date     string
	owingIDs []string
}

// buildExpense validates in against the participants of eventID. Errors are Connect
// errors ready to return.
func (s *LedgerService) buildExpense(ctx context.Context, eventID string, in expenseInput) (*models.Expense, error) {
	purpose := strings.TrimSpace(in.purpose)
	if purpose == "" {
		return nil, invalidArgument("purpose required")
	}

	date, err := s.parseDate(in.date)
	if err != nil {
		return nil, err
	}

	amount, err := s.expenseAmount(ctx, in.amount, in.currency, date)
	if err != nil {
		slog.Warn("Expense rejected", "amount", in.amount, "currency", in.currency, "error", err)
		return nil, toConnectError(err)
	}

	participants, err := s.participants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	members := make(map[string]bool, len(participants))
	for _, p := range participants {
		members[p.ID] = true
	}

	if !members[in.payerID] {
		return nil, invalidArgument("payer_id '%s' is not a participant of the event", in.payerID)
	}
	owing, err := owingSet(in.owingIDs, members)
	if err != nil {
		return nil, err
	}

	return &models.Expense{
		EventID:  eventID,
		PayerID:  in.payerID,
		Amount:   amount,
		Purpose:  purpose,
		OwingIDs: owing,
		Date:     date,
	}, nil
}

// expenseAmount parses a positive amount and converts it into the base currency.
func (s *LedgerService) expenseAmount(ctx context.Context, raw, currency string, date time.Time) (money.Money, error) {
	amount, err := money.Parse(raw)
	if err != nil {
		return money.Zero, err
	}
	if !amount.IsPositive() {
		return money.Zero, fmt.Errorf("%w: amount must be positive, got %s", money.ErrInvalidAmount, raw)
	}
	if currency == "" || strings.EqualFold(currency, exchange.BaseCurrency) {
		return amount, checkCeiling(amount)
	}

	rates, currency, err := s.ratesFor(ctx, currency, date)
	if err != nil {
		return money.Zero, err
	}
	base, err := exchange.ToBase(rates, amount, currency)
	if err != nil {
		return money.Zero, err
	}
	if !base.IsPositive() {
		return money.Zero, fmt.Errorf("%w: %s %s is zero in %s", money.ErrInvalidAmount, raw, currency, exchange.BaseCurrency)
	}
	return base, checkCeiling(base)
}

// displayRates returns today's rates for a requested display currency, or nil when no
// conversion is asked for.
func (s *LedgerService) displayRates(ctx context.Context, currency string) (*exchange.Rates, string, error) {
	if strings.TrimSpace(currency) == "" {
		return nil, "", nil
	}
	return s.ratesFor(ctx, currency, s.today())
}

func (s *LedgerService) ratesFor(ctx context.Context, currency string, date time.Time) (*exchange.Rates, string, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if !exchange.IsSupported(currency) {
		return nil, "", fmt.Errorf("%w: %s", exchange.ErrUnknownCurrency, currency)
	}
	if s.rates == nil {
		return nil, "", errRatesUnavailable
	}

	rates, err := s.rates.Rates(ctx, date)
	if err != nil {
		slog.Error("Failed to load exchange rates", "date", date.Format(exchange.DateLayout), "error", err)
		return nil, "", err
	}
	return rates, currency, nil
}

func (s *LedgerService) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return s.today(), nil
	}
	date, err := time.Parse(exchange.DateLayout, raw)
	if err != nil {
		return time.Time{}, invalidArgument("date must be YYYY-MM-DD, got %q", raw)
	}
	return date, nil
}

func (s *LedgerService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func checkCeiling(amount money.Money) error {
	if amount.Cmp(money.MaxAmount) > 0 {
		return fmt.Errorf("%w: %s exceeds the per-expense limit of %s", money.ErrOverflow, amount, money.MaxAmount)
	}
	return nil
}

func normalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}

// owingSet checks that every id belongs to the event and drops duplicates,
// keeping first-seen order.
func owingSet(ids []string, members map[string]bool) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	owing := make([]string, 0, len(ids))
	for _, id := range ids {
		if !members[id] {
			return nil, invalidArgument("owing id '%s' is not a participant of the event", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		owing = append(owing, id)
	}
	return owing, nil
}

func containsDebt(debts []models.Debt, want models.Debt) bool {
	for _, d := range debts {
		if d.From == want.From && d.To == want.To && d.Amount.Cmp(want.Amount) == 0 {
			return true
		}
	}
	return false
}
