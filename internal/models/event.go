package models

// Event is a group of participants sharing expenses.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Title is the display name of the event (e.g., "Ski trip", "Flat 3B").
	Title string

	// InviteCode is the short code participants use to join the event.
	InviteCode string

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change to the event or its ledger.
	UpdatedAt int64
}

// Participant is a person taking part in an event.
// Payment details are optional and only used for display.
type Participant struct {
	ID      string
	EventID string
	Name    string
	Email   string
	IBAN    string
	BIC     string
}
