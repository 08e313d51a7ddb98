package service

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/pkg/api"
)

// createEventWith creates an event with the named participants and returns the event
// ID and a name -> participant ID map.
func createEventWith(t *testing.T, ts *testServer, names ...string) (string, map[string]string) {
	t.Helper()
	ctx := context.Background()

	resp, err := ts.ledger.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{Title: "Ski trip"}))
	require.NoError(t, err)
	eventID := resp.Msg.Event.ID

	ids := make(map[string]string, len(names))
	for _, name := range names {
		p, err := ts.ledger.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{
			EventID: eventID,
			Name:    name,
		}))
		require.NoError(t, err)
		ids[name] = p.Msg.Participant.ID
	}
	return eventID, ids
}

func addExpense(t *testing.T, ts *testServer, eventID, payer, amount string, owing ...string) *api.Expense {
	t.Helper()
	resp, err := ts.ledger.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventID:  eventID,
		PayerID:  payer,
		Amount:   amount,
		Purpose:  "Dinner",
		OwingIDs: owing,
	}))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func balancesByID(t *testing.T, ts *testServer, eventID string) map[string]string {
	t.Helper()
	resp, err := ts.ledger.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)

	out := make(map[string]string, len(resp.Msg.Balances))
	for _, b := range resp.Msg.Balances {
		out[b.ParticipantID] = b.Amount
	}
	return out
}

func getDebts(t *testing.T, ts *testServer, eventID string) []*api.Debt {
	t.Helper()
	resp, err := ts.ledger.GetDebts(context.Background(), connect.NewRequest(&api.GetDebtsRequest{EventID: eventID}))
	require.NoError(t, err)
	return resp.Msg.Debts
}

func TestCreateEvent(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := ts.ledger.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{Title: "  Flat 3B "}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if resp.Msg.Event.ID == "" {
		t.Error("expected non-empty event ID")
	}
	if resp.Msg.Event.Title != "Flat 3B" {
		t.Errorf("title: expected 'Flat 3B', got '%s'", resp.Msg.Event.Title)
	}
	if resp.Msg.Event.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}

	got, err := ts.ledger.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{EventID: resp.Msg.Event.ID}))
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Msg.Event.Title != "Flat 3B" {
		t.Errorf("persisted title mismatch: got '%s'", got.Msg.Event.Title)
	}
}

func TestCreateEvent_GeneratedTitle(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := ts.ledger.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{}))
	require.NoError(t, err)
	assert.Contains(t, resp.Msg.Event.Title, "Event - ")
}

func TestGetEvent_NotFound(t *testing.T) {
	ts := setupTestServer(t, nil)

	_, err := ts.ledger.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{EventID: "nonexistent-id"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = ts.ledger.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestAddParticipant(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, _ := createEventWith(t, ts)
	ctx := context.Background()

	resp, err := ts.ledger.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{
		EventID: eventID,
		Name:    " Alice ",
		Email:   "alice@example.com",
		IBAN:    "nl91 abna 0417 1643 00",
		BIC:     "abnanl2a",
	}))
	require.NoError(t, err)

	p := resp.Msg.Participant
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "NL91ABNA0417164300", p.IBAN)
	assert.Equal(t, "ABNANL2A", p.BIC)

	list, err := ts.ledger.ListParticipants(ctx, connect.NewRequest(&api.ListParticipantsRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Participants, 1)
	assert.Equal(t, *p, *list.Msg.Participants[0])
}

func TestAddParticipant_Invalid(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, _ := createEventWith(t, ts)
	ctx := context.Background()

	_, err := ts.ledger.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{EventID: eventID, Name: "  "}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.ledger.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{EventID: "nonexistent-id", Name: "Bob"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestAddExpense(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")

	resp, err := ts.ledger.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventID:  eventID,
		PayerID:  ids["Alice"],
		Amount:   "42.50",
		Purpose:  " Groceries ",
		OwingIDs: []string{ids["Bob"], ids["Alice"], ids["Bob"]},
		Date:     "2024-03-01",
	}))
	require.NoError(t, err)

	e := resp.Msg.Expense
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "42.5", e.Amount)
	assert.Equal(t, "Groceries", e.Purpose)
	assert.Equal(t, []string{ids["Bob"], ids["Alice"]}, e.OwingIDs)
	assert.Equal(t, "2024-03-01", e.Date)
	assert.False(t, e.IsSettlement)

	list, err := ts.ledger.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 1)
	assert.Equal(t, e.ID, list.Msg.Expenses[0].ID)
	assert.ElementsMatch(t, e.OwingIDs, list.Msg.Expenses[0].OwingIDs)
}

func TestAddExpense_Invalid(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	_, other := createEventWith(t, ts, "Mallory")

	valid := func() *api.AddExpenseRequest {
		return &api.AddExpenseRequest{
			EventID:  eventID,
			PayerID:  ids["Alice"],
			Amount:   "10",
			Purpose:  "Taxi",
			OwingIDs: []string{ids["Bob"]},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *api.AddExpenseRequest)
		code   connect.Code
	}{
		{"zero amount", func(r *api.AddExpenseRequest) { r.Amount = "0" }, connect.CodeInvalidArgument},
		{"negative amount", func(r *api.AddExpenseRequest) { r.Amount = "-5" }, connect.CodeInvalidArgument},
		{"not a number", func(r *api.AddExpenseRequest) { r.Amount = "ten" }, connect.CodeInvalidArgument},
		{"rounds to zero", func(r *api.AddExpenseRequest) { r.Amount = "0.000000001" }, connect.CodeInvalidArgument},
		{"blank purpose", func(r *api.AddExpenseRequest) { r.Purpose = "   " }, connect.CodeInvalidArgument},
		{"bad date", func(r *api.AddExpenseRequest) { r.Date = "01/03/2024" }, connect.CodeInvalidArgument},
		{"payer from other event", func(r *api.AddExpenseRequest) { r.PayerID = other["Mallory"] }, connect.CodeInvalidArgument},
		{"ower from other event", func(r *api.AddExpenseRequest) { r.OwingIDs = []string{other["Mallory"]} }, connect.CodeInvalidArgument},
		{"unknown currency", func(r *api.AddExpenseRequest) { r.Currency = "jpy" }, connect.CodeInvalidArgument},
		{"no rates configured", func(r *api.AddExpenseRequest) { r.Currency = "usd" }, connect.CodeUnavailable},
		{"missing event", func(r *api.AddExpenseRequest) { r.EventID = "nonexistent-id" }, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := ts.ledger.AddExpense(context.Background(), connect.NewRequest(req))
			expectCode(t, err, tt.code)
		})
	}

	list, err := ts.ledger.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses)
}

func TestAddExpense_AmountLimits(t *testing.T) {
	ts := setupTestServer(t, fixedRates{})
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	ctx := context.Background()

	add := func(amount, currency string) error {
		_, err := ts.ledger.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
			EventID:  eventID,
			PayerID:  ids["Alice"],
			Amount:   amount,
			Currency: currency,
			Purpose:  "Chalet",
			OwingIDs: []string{ids["Bob"]},
		}))
		return err
	}

	expectCode(t, add("60000000000", ""), connect.CodeInvalidArgument)
	expectCode(t, add("1000000000.00000001", ""), connect.CodeInvalidArgument)
	// 1,100,000,000 USD is just over a billion EUR at 1.0842.
	expectCode(t, add("1100000000", "usd"), connect.CodeInvalidArgument)

	for i := 0; i < 92; i++ {
		require.NoError(t, add("1000000000", ""))
	}
	// The next billion would push the ledger total past the representable range.
	expectCode(t, add("1000000000", ""), connect.CodeInvalidArgument)

	assert.Equal(t, map[string]string{
		ids["Alice"]: "92000000000",
		ids["Bob"]:   "-92000000000",
	}, balancesByID(t, ts, eventID))
	assert.Equal(t, []*api.Debt{{From: ids["Bob"], To: ids["Alice"], Amount: "92000000000"}}, getDebts(t, ts, eventID))
}

func TestAddExpense_ForeignCurrency(t *testing.T) {
	ts := setupTestServer(t, fixedRates{})
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")

	resp, err := ts.ledger.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		EventID:  eventID,
		PayerID:  ids["Alice"],
		Amount:   "10.842",
		Currency: "USD",
		Purpose:  "Museum",
		OwingIDs: []string{ids["Bob"]},
	}))
	require.NoError(t, err)
	assert.Equal(t, "10", resp.Msg.Expense.Amount)
}

func TestGetBalances_ThreeWayDinner(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob", "Carol", "Dave")

	addExpense(t, ts, eventID, ids["Alice"], "30", ids["Alice"], ids["Bob"], ids["Carol"])

	balances := balancesByID(t, ts, eventID)
	assert.Equal(t, map[string]string{
		ids["Alice"]: "20",
		ids["Bob"]:   "-10",
		ids["Carol"]: "-10",
		ids["Dave"]:  "0",
	}, balances)
}

func TestGetBalances_SortedAndResidual(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob", "Carol")

	addExpense(t, ts, eventID, ids["Alice"], "10", ids["Alice"], ids["Bob"], ids["Carol"])

	resp, err := ts.ledger.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)

	require.Len(t, resp.Msg.Balances, 3)
	for i := 1; i < len(resp.Msg.Balances); i++ {
		assert.Less(t, resp.Msg.Balances[i-1].ParticipantID, resp.Msg.Balances[i].ParticipantID)
	}
	assert.Equal(t, "0.00000001", resp.Msg.Imbalance)
	assert.Empty(t, resp.Msg.Currency)
	assert.Empty(t, resp.Msg.Balances[0].Converted)
}

func TestGetBalances_DisplayCurrency(t *testing.T) {
	ts := setupTestServer(t, fixedRates{})
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")

	addExpense(t, ts, eventID, ids["Alice"], "20", ids["Bob"])

	resp, err := ts.ledger.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{
		EventID:  eventID,
		Currency: "USD",
	}))
	require.NoError(t, err)

	assert.Equal(t, "usd", resp.Msg.Currency)
	assert.NotEmpty(t, resp.Msg.RatesDate)
	for _, b := range resp.Msg.Balances {
		switch b.ParticipantID {
		case ids["Alice"]:
			assert.Equal(t, "20", b.Amount)
			assert.Equal(t, "21.684", b.Converted)
		case ids["Bob"]:
			assert.Equal(t, "-20", b.Amount)
			assert.Equal(t, "-21.684", b.Converted)
		}
	}
}

func TestGetDebts_CurrencyErrors(t *testing.T) {
	eventReq := func(ts *testServer, currency string) error {
		eventID, _ := createEventWith(t, ts, "Alice")
		_, err := ts.ledger.GetDebts(context.Background(), connect.NewRequest(&api.GetDebtsRequest{
			EventID:  eventID,
			Currency: currency,
		}))
		return err
	}

	expectCode(t, eventReq(setupTestServer(t, nil), "usd"), connect.CodeUnavailable)
	expectCode(t, eventReq(setupTestServer(t, fixedRates{}), "jpy"), connect.CodeInvalidArgument)
}

func TestGetDebts_Empty(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, _ := createEventWith(t, ts, "Alice", "Bob")

	debts := getDebts(t, ts, eventID)
	assert.NotNil(t, debts)
	assert.Empty(t, debts)
}

func TestSettleDebts_UntilBalanced(t *testing.T) {
	ts := setupTestServer(t, fixedRates{})
	eventID, ids := createEventWith(t, ts, "Alice", "Bob", "Carol")
	ctx := context.Background()

	addExpense(t, ts, eventID, ids["Alice"], "60", ids["Alice"], ids["Bob"], ids["Carol"])
	addExpense(t, ts, eventID, ids["Bob"], "30", ids["Alice"], ids["Bob"], ids["Carol"])

	// Alice +30, Bob 0, Carol -30
	debts := getDebts(t, ts, eventID)
	require.Len(t, debts, 1)
	assert.Equal(t, ids["Carol"], debts[0].From)
	assert.Equal(t, ids["Alice"], debts[0].To)
	assert.Equal(t, "30", debts[0].Amount)

	resp, err := ts.ledger.SettleDebt(ctx, connect.NewRequest(&api.SettleDebtRequest{
		EventID: eventID,
		From:    debts[0].From,
		To:      debts[0].To,
		Amount:  debts[0].Amount,
	}))
	require.NoError(t, err)

	e := resp.Msg.Expense
	assert.True(t, e.IsSettlement)
	assert.Equal(t, models.SettlementPurpose, e.Purpose)
	assert.Equal(t, ids["Carol"], e.PayerID)
	assert.Equal(t, []string{ids["Alice"]}, e.OwingIDs)
	assert.Equal(t, "30", e.Amount)

	assert.Empty(t, getDebts(t, ts, eventID))
	for id, b := range balancesByID(t, ts, eventID) {
		assert.Equal(t, "0", b, "balance of %s", id)
	}
}

func TestSettleDebt_Rejected(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	addExpense(t, ts, eventID, ids["Alice"], "20", ids["Bob"])

	tests := []struct {
		name string
		req  *api.SettleDebtRequest
		code connect.Code
	}{
		{"wrong amount", &api.SettleDebtRequest{EventID: eventID, From: ids["Bob"], To: ids["Alice"], Amount: "10"}, connect.CodeFailedPrecondition},
		{"wrong direction", &api.SettleDebtRequest{EventID: eventID, From: ids["Alice"], To: ids["Bob"], Amount: "20"}, connect.CodeFailedPrecondition},
		{"bad amount", &api.SettleDebtRequest{EventID: eventID, From: ids["Bob"], To: ids["Alice"], Amount: "x"}, connect.CodeInvalidArgument},
		{"missing from", &api.SettleDebtRequest{EventID: eventID, To: ids["Alice"], Amount: "20"}, connect.CodeInvalidArgument},
		{"missing event", &api.SettleDebtRequest{EventID: "nonexistent-id", From: ids["Bob"], To: ids["Alice"], Amount: "20"}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.ledger.SettleDebt(context.Background(), connect.NewRequest(tt.req))
			expectCode(t, err, tt.code)
		})
	}

	assert.Len(t, getDebts(t, ts, eventID), 1)
}

func TestSettleDebt_Concurrent(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	addExpense(t, ts, eventID, ids["Alice"], "20", ids["Bob"])

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ts.ledger.SettleDebt(context.Background(), connect.NewRequest(&api.SettleDebtRequest{
				EventID: eventID,
				From:    ids["Bob"],
				To:      ids["Alice"],
				Amount:  "20",
			}))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		expectCode(t, err, connect.CodeFailedPrecondition)
	}
	assert.Equal(t, 1, succeeded)
	assert.Empty(t, getDebts(t, ts, eventID))
	assert.Zero(t, ts.service.locks.held())
}

func TestRemoveParticipant_KeepsLedger(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	addExpense(t, ts, eventID, ids["Alice"], "20", ids["Bob"])
	ctx := context.Background()

	_, err := ts.ledger.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{ParticipantID: ids["Bob"]}))
	require.NoError(t, err)

	list, err := ts.ledger.ListParticipants(ctx, connect.NewRequest(&api.ListParticipantsRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Participants, 1)

	assert.Equal(t, map[string]string{ids["Alice"]: "20", ids["Bob"]: "-20"}, balancesByID(t, ts, eventID))

	_, err = ts.ledger.RemoveParticipant(ctx, connect.NewRequest(&api.RemoveParticipantRequest{ParticipantID: ids["Bob"]}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestDeleteExpense(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	e := addExpense(t, ts, eventID, ids["Alice"], "20", ids["Bob"])
	ctx := context.Background()

	_, err := ts.ledger.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: e.ID}))
	require.NoError(t, err)
	assert.Empty(t, getDebts(t, ts, eventID))

	_, err = ts.ledger.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: e.ID}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestGetEventByInvite(t *testing.T) {
	ts := setupTestServer(t, nil)
	ctx := context.Background()

	created, err := ts.ledger.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{Title: "Ski trip"}))
	require.NoError(t, err)
	code := created.Msg.Event.InviteCode
	require.Len(t, code, 6)

	resp, err := ts.ledger.GetEventByInvite(ctx, connect.NewRequest(&api.GetEventByInviteRequest{InviteCode: " " + strings.ToLower(code) + " "}))
	require.NoError(t, err)
	assert.Equal(t, created.Msg.Event.ID, resp.Msg.Event.ID)

	_, err = ts.ledger.GetEventByInvite(ctx, connect.NewRequest(&api.GetEventByInviteRequest{InviteCode: "ZZZZZ1"}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = ts.ledger.GetEventByInvite(ctx, connect.NewRequest(&api.GetEventByInviteRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestUpdateEvent(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, _ := createEventWith(t, ts)
	ctx := context.Background()

	resp, err := ts.ledger.UpdateEvent(ctx, connect.NewRequest(&api.UpdateEventRequest{EventID: eventID, Title: " Ski trip 2025 "}))
	require.NoError(t, err)
	assert.Equal(t, "Ski trip 2025", resp.Msg.Event.Title)

	got, err := ts.ledger.GetEvent(ctx, connect.NewRequest(&api.GetEventRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Equal(t, "Ski trip 2025", got.Msg.Event.Title)

	_, err = ts.ledger.UpdateEvent(ctx, connect.NewRequest(&api.UpdateEventRequest{EventID: eventID, Title: "  "}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.ledger.UpdateEvent(ctx, connect.NewRequest(&api.UpdateEventRequest{EventID: "nonexistent-id", Title: "x"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestUpdateParticipant(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob")
	addExpense(t, ts, eventID, ids["Alice"], "20", ids["Bob"])
	ctx := context.Background()

	resp, err := ts.ledger.UpdateParticipant(ctx, connect.NewRequest(&api.UpdateParticipantRequest{
		ParticipantID: ids["Bob"],
		Name:          "Robert",
		IBAN:          "nl91 abna 0417 1643 00",
	}))
	require.NoError(t, err)
	assert.Equal(t, ids["Bob"], resp.Msg.Participant.ID)
	assert.Equal(t, "Robert", resp.Msg.Participant.Name)
	assert.Equal(t, "NL91ABNA0417164300", resp.Msg.Participant.IBAN)

	// Same ID, same ledger position.
	assert.Equal(t, map[string]string{ids["Alice"]: "20", ids["Bob"]: "-20"}, balancesByID(t, ts, eventID))

	_, err = ts.ledger.UpdateParticipant(ctx, connect.NewRequest(&api.UpdateParticipantRequest{ParticipantID: ids["Bob"]}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.ledger.UpdateParticipant(ctx, connect.NewRequest(&api.UpdateParticipantRequest{ParticipantID: "nonexistent-id", Name: "x"}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestUpdateExpense(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob", "Charlie")
	e := addExpense(t, ts, eventID, ids["Alice"], "30", ids["Alice"], ids["Bob"], ids["Charlie"])
	ctx := context.Background()

	resp, err := ts.ledger.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: e.ID,
		PayerID:   ids["Bob"],
		Amount:    "12",
		Purpose:   "Taxi",
		OwingIDs:  []string{ids["Charlie"]},
		Date:      "2024-03-02",
	}))
	require.NoError(t, err)
	assert.Equal(t, e.ID, resp.Msg.Expense.ID)
	assert.Equal(t, e.CreatedAt, resp.Msg.Expense.CreatedAt)
	assert.Equal(t, "12", resp.Msg.Expense.Amount)

	assert.Equal(t, map[string]string{
		ids["Alice"]:   "0",
		ids["Bob"]:     "12",
		ids["Charlie"]: "-12",
	}, balancesByID(t, ts, eventID))
	assert.Equal(t, []*api.Debt{{From: ids["Charlie"], To: ids["Bob"], Amount: "12"}}, getDebts(t, ts, eventID))

	t.Run("validated like AddExpense", func(t *testing.T) {
		_, err := ts.ledger.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
			ExpenseID: e.ID, PayerID: "stranger", Amount: "12", Purpose: "Taxi",
		}))
		expectCode(t, err, connect.CodeInvalidArgument)

		_, err = ts.ledger.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
			ExpenseID: e.ID, PayerID: ids["Bob"], Amount: "60000000000", Purpose: "Taxi",
		}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown expense", func(t *testing.T) {
		_, err := ts.ledger.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
			ExpenseID: "nonexistent-id", PayerID: ids["Bob"], Amount: "1", Purpose: "x",
		}))
		expectCode(t, err, connect.CodeNotFound)
	})

	t.Run("settlements are not editable", func(t *testing.T) {
		settled, err := ts.ledger.SettleDebt(ctx, connect.NewRequest(&api.SettleDebtRequest{
			EventID: eventID, From: ids["Charlie"], To: ids["Bob"], Amount: "12",
		}))
		require.NoError(t, err)

		_, err = ts.ledger.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
			ExpenseID: settled.Msg.Expense.ID, PayerID: ids["Charlie"], Amount: "1", Purpose: "x",
		}))
		expectCode(t, err, connect.CodeFailedPrecondition)
	})
}

func TestConvertAmount(t *testing.T) {
	ts := setupTestServer(t, fixedRates{})
	ctx := context.Background()

	resp, err := ts.ledger.ConvertAmount(ctx, connect.NewRequest(&api.ConvertAmountRequest{
		Date:     "2024-03-01",
		Amount:   "100",
		Currency: "GBP",
	}))
	require.NoError(t, err)
	assert.Equal(t, "85.67", resp.Msg.Amount)
	assert.Equal(t, "gbp", resp.Msg.Currency)
	assert.Equal(t, "2024-03-01", resp.Msg.RatesDate)

	_, err = ts.ledger.ConvertAmount(ctx, connect.NewRequest(&api.ConvertAmountRequest{Amount: "1"}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.ledger.ConvertAmount(ctx, connect.NewRequest(&api.ConvertAmountRequest{Amount: "1", Currency: "jpy"}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestEngineMetrics(t *testing.T) {
	ts := setupTestServer(t, nil)
	eventID, ids := createEventWith(t, ts, "Alice", "Bob", "Carol")
	addExpense(t, ts, eventID, ids["Alice"], "30", ids["Bob"], ids["Carol"])

	assert.Len(t, getDebts(t, ts, eventID), 2)

	rec := httptest.NewRecorder()
	ts.metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "splitty_debts_computed_total 2")
	assert.Contains(t, rec.Body.String(), `splitty_engine_duration_seconds_count{op="debts"} 1`)
}
