package api

// Event is a group of participants sharing expenses.
type Event struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	InviteCode string `json:"inviteCode"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// Participant is a person taking part in an event.
type Participant struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IBAN    string `json:"iban,omitempty"`
	BIC     string `json:"bic,omitempty"`
}

// Expense is one ledger entry.
type Expense struct {
	ID           string   `json:"id"`
	EventID      string   `json:"eventId"`
	PayerID      string   `json:"payerId"`
	Amount       string   `json:"amount"`
	Purpose      string   `json:"purpose"`
	OwingIDs     []string `json:"owingIds"`
	IsSettlement bool     `json:"isSettlement"`
	Date         string   `json:"date,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
}

// Balance is the net position of one participant.
// Positive means they are owed money, negative means they owe.
type Balance struct {
	ParticipantID string `json:"participantId"`
	Amount        string `json:"amount"`
	// Converted is Amount in the requested display currency, if any.
	Converted string `json:"converted,omitempty"`
}

// Debt is a recommended transfer from one participant to another.
type Debt struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Converted string `json:"converted,omitempty"`
}

type CreateEventRequest struct {
	Title string `json:"title"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"eventId"`
}

type GetEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventByInviteRequest struct {
	InviteCode string `json:"inviteCode"`
}

type GetEventByInviteResponse struct {
	Event *Event `json:"event"`
}

type UpdateEventRequest struct {
	EventID string `json:"eventId"`
	Title   string `json:"title"`
}

type UpdateEventResponse struct {
	Event *Event `json:"event"`
}

type AddParticipantRequest struct {
	EventID string `json:"eventId"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IBAN    string `json:"iban,omitempty"`
	BIC     string `json:"bic,omitempty"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type ListParticipantsRequest struct {
	EventID string `json:"eventId"`
}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

// UpdateParticipantRequest replaces the name and payment details of a participant.
type UpdateParticipantRequest struct {
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	IBAN          string `json:"iban,omitempty"`
	BIC           string `json:"bic,omitempty"`
}

type UpdateParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	ParticipantID string `json:"participantId"`
}

type RemoveParticipantResponse struct{}

type AddExpenseRequest struct {
	EventID  string   `json:"eventId"`
	PayerID  string   `json:"payerId"`
	Amount   string   `json:"amount"`
	Purpose  string   `json:"purpose"`
	OwingIDs []string `json:"owingIds"`
	// Date is YYYY-MM-DD; empty means today.
	Date string `json:"date,omitempty"`
	// Currency the amount is given in; empty means EUR.
	Currency string `json:"currency,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	EventID string `json:"eventId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// UpdateExpenseRequest replaces every editable field of an expense. The expense keeps
// its ID, event and position in the ledger.
type UpdateExpenseRequest struct {
	ExpenseID string   `json:"expenseId"`
	PayerID   string   `json:"payerId"`
	Amount    string   `json:"amount"`
	Purpose   string   `json:"purpose"`
	OwingIDs  []string `json:"owingIds"`
	Date      string   `json:"date,omitempty"`
	Currency  string   `json:"currency,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type GetBalancesRequest struct {
	EventID  string `json:"eventId"`
	Currency string `json:"currency,omitempty"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
	// Imbalance is the sum of all balances: the rounding residual kept by payers.
	Imbalance string `json:"imbalance"`
	Currency  string `json:"currency,omitempty"`
	RatesDate string `json:"ratesDate,omitempty"`
}

type GetDebtsRequest struct {
	EventID  string `json:"eventId"`
	Currency string `json:"currency,omitempty"`
}

type GetDebtsResponse struct {
	Debts     []*Debt `json:"debts"`
	Currency  string  `json:"currency,omitempty"`
	RatesDate string  `json:"ratesDate,omitempty"`
}

type SettleDebtRequest struct {
	EventID string `json:"eventId"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

type SettleDebtResponse struct {
	Expense *Expense `json:"expense"`
}

type ConvertAmountRequest struct {
	// Date is YYYY-MM-DD; empty means today.
	Date     string `json:"date,omitempty"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type ConvertAmountResponse struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	RatesDate string `json:"ratesDate"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type DeleteEventRequest struct {
	EventID string `json:"eventId"`
}

type DeleteEventResponse struct{}
