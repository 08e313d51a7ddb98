// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection, not just the first one.
	// Immediate transactions take the write lock up front, so concurrent writers wait
	// on busy_timeout instead of failing on lock upgrade.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event to the database.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}
	if event.UpdatedAt == 0 {
		event.UpdatedAt = event.CreatedAt
	}
	if event.Title == "" {
		event.Title = generateTitle(time.Unix(event.CreatedAt, 0))
	}
	if event.InviteCode == "" {
		code, err := newInviteCode()
		if err != nil {
			return err
		}
		event.InviteCode = code
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, title, invite_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Title, event.InviteCode, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?",
		eventID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// GetEventByInviteCode retrieves an event by its invite code.
func (s *SQLiteStore) GetEventByInviteCode(ctx context.Context, inviteCode string) (*models.Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE invite_code = ?",
		inviteCode,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event with invite code %s: %w", inviteCode, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// UpdateEvent saves the event's title and sets UpdatedAt to now.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	updatedAt := time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET title = ?, updated_at = ? WHERE id = ?",
		event.Title, updatedAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if err := requireAffected(res, "event", event.ID); err != nil {
		return err
	}

	event.UpdatedAt = updatedAt
	return nil
}

// ListEvents retrieves all events, most recently updated first.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY updated_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// DeleteEvent removes an event. Participants and expenses go with it (ON DELETE CASCADE).
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireAffected(res, "event", eventID)
}

const eventColumns = "id, title, invite_code, created_at, updated_at"

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	if err := row.Scan(&event.ID, &event.Title, &event.InviteCode, &event.CreatedAt, &event.UpdatedAt); err != nil {
		return nil, err
	}
	return event, nil
}

// touchEvent bumps the event's updated_at inside tx.
func touchEvent(ctx context.Context, tx *sql.Tx, eventID string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE events SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireAffected(res, "event", eventID)
}

// requireAffected turns "zero rows affected" into storage.ErrNotFound.
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// generateTitle creates an auto-generated event title.
func generateTitle(createdAt time.Time) string {
	return fmt.Sprintf("Event - %s", createdAt.Format("Jan 2, 2006"))
}
