package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/internal/storage"
)

// AddParticipant inserts a new participant into an existing event.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := touchEvent(ctx, tx, participant.EventID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO participants (id, event_id, name, email, iban, bic)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		participant.ID, participant.EventID, participant.Name,
		nullable(participant.Email), nullable(participant.IBAN), nullable(participant.BIC),
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	p, err := scanParticipant(s.db.QueryRowContext(ctx,
		`SELECT id, event_id, name, email, iban, bic FROM participants WHERE id = ?`,
		participantID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants retrieves the participants of an event ordered by name.
func (s *SQLiteStore) ListParticipants(ctx context.Context, eventID string) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, name, email, iban, bic
		 FROM participants WHERE event_id = ? ORDER BY name, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// UpdateParticipant saves the name and payment details of a participant.
// participant.EventID must be the event the participant belongs to.
func (s *SQLiteStore) UpdateParticipant(ctx context.Context, participant *models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE participants SET name = ?, email = ?, iban = ?, bic = ?
		 WHERE id = ? AND event_id = ?`,
		participant.Name, nullable(participant.Email), nullable(participant.IBAN), nullable(participant.BIC),
		participant.ID, participant.EventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	if err := requireAffected(res, "participant", participant.ID); err != nil {
		return err
	}
	if err := touchEvent(ctx, tx, participant.EventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveParticipant deletes a participant. Their expenses and owing rows are kept.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, participantID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM participants WHERE id = ?", participantID)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return requireAffected(res, "participant", participantID)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	var email, iban, bic sql.NullString
	if err := row.Scan(&p.ID, &p.EventID, &p.Name, &email, &iban, &bic); err != nil {
		return nil, err
	}
	p.Email = email.String
	p.IBAN = iban.String
	p.BIC = bic.String
	return p, nil
}

// nullable stores empty optional strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
