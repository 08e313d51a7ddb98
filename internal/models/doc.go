// Package models defines the core domain models for Splitty.
//
// # Models
//
//   - Event: a shared-expense group (a trip, a dinner, a household)
//   - Participant: a person taking part in an event
//   - Expense: an immutable ledger entry, either a regular expense or a settlement
//   - Debt: a recommended transfer between two participants, derived on request
//
// All amounts are money.Money in the ledger's base unit (EUR). Display currencies are
// applied only at the API edge.
//
// # Design Principles
//
//  1. **Derived data is never stored**: balances and debts are recomputed from the
//     expenses of an event on every request
//  2. **Avoid circular references**: use ID strings instead of pointers for relationships
//  3. **Settlements are expenses**: paying off a debt appends an Expense with
//     IsSettlement set, so the ledger stays the single source of truth
package models
