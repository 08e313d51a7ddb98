package models

import (
	"time"

	"github.com/mmynk/splitty/internal/money"
)

// SettlementPurpose is the purpose recorded on expenses created by settling a debt.
const SettlementPurpose = "Debt Settlement"

// Expense is one ledger entry: PayerID paid Amount on behalf of OwingIDs.
//
// Expenses are treated as immutable once they are part of a ledger snapshot.
// Amount is always positive; validation happens when the expense is ingested.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the event whose ledger this expense belongs to.
	EventID string

	// PayerID is the participant who paid.
	PayerID string

	// Amount is what the payer paid, in the base unit.
	Amount money.Money

	// Purpose is a short description (e.g., "Groceries").
	Purpose string

	// OwingIDs are the participants who owe the amount back, split equally.
	// It is a set: no duplicates. It may be empty, in which case nobody owes anything.
	OwingIDs []string

	// IsSettlement marks expenses that record a payment made to resolve a debt.
	IsSettlement bool

	// Date is the day the money was spent, used for display currency conversion.
	Date time.Time

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Debt is a recommended transfer: From should pay To the given Amount.
type Debt struct {
	From   string
	To     string
	Amount money.Money
}
