// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitty/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// EventStore persists events.
type EventStore interface {
	// CreateEvent persists a new event. ID and timestamps are filled in when empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by its ID.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// GetEventByInviteCode retrieves an event by its invite code.
	GetEventByInviteCode(ctx context.Context, inviteCode string) (*models.Event, error)

	// UpdateEvent saves the title of an existing event and bumps its UpdatedAt.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// ListEvents returns all events, most recently updated first.
	ListEvents(ctx context.Context) ([]*models.Event, error)

	// DeleteEvent removes an event together with its participants and expenses.
	DeleteEvent(ctx context.Context, eventID string) error
}

// ParticipantStore persists the participants of events.
type ParticipantStore interface {
	AddParticipant(ctx context.Context, participant *models.Participant) error
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	ListParticipants(ctx context.Context, eventID string) ([]*models.Participant, error)
	UpdateParticipant(ctx context.Context, participant *models.Participant) error

	// RemoveParticipant deletes the participant but leaves the ledger untouched:
	// expenses keep referring to the removed ID.
	RemoveParticipant(ctx context.Context, participantID string) error
}

// ExpenseStore persists ledgers.
type ExpenseStore interface {
	// CreateExpense appends an expense to its event's ledger.
	// ID and CreatedAt are filled in when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns the whole ledger of an event as one consistent snapshot,
	// oldest first.
	ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error)

	// UpdateExpense replaces payer, amount, purpose, date and owing participants of an
	// expense. Its event, creation time and settlement flag are kept.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, expenseID string) error
}

// Store combines all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	EventStore
	ParticipantStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
