package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/internal/storage"
)

const dateLayout = "2006-01-02"

// CreateExpense appends an expense and its owing participants in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := touchEvent(ctx, tx, expense.EventID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, payer_id, amount, purpose, is_settlement, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.PayerID, expense.Amount, expense.Purpose,
		expense.IsSettlement, expenseDate(expense), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertOwers(ctx, tx, expense.ID, expense.OwingIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateExpense rewrites an expense and its owing participants in one transaction.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET payer_id = ?, amount = ?, purpose = ?, date = ?
		 WHERE id = ? AND event_id = ?`,
		expense.PayerID, expense.Amount, expense.Purpose, expenseDate(expense),
		expense.ID, expense.EventID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireAffected(res, "expense", expense.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_owers WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear owing participants: %w", err)
	}
	if err := insertOwers(ctx, tx, expense.ID, expense.OwingIDs); err != nil {
		return err
	}
	if err := touchEvent(ctx, tx, expense.EventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertOwers(ctx context.Context, tx *sql.Tx, expenseID string, participantIDs []string) error {
	for _, participantID := range participantIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_owers (expense_id, participant_id) VALUES (?, ?)",
			expenseID, participantID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert owing participant: %w", err)
		}
	}
	return nil
}

// expenseDate stores a missing date as NULL.
func expenseDate(expense *models.Expense) any {
	if expense.Date.IsZero() {
		return nil
	}
	return expense.Date.Format(dateLayout)
}

// GetExpense retrieves a single expense with its owing participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expense, err := scanExpense(tx.QueryRowContext(ctx,
		`SELECT id, event_id, payer_id, amount, purpose, is_settlement, date, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT participant_id FROM expense_owers WHERE expense_id = ? ORDER BY participant_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get owing participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participantID string
		if err := rows.Scan(&participantID); err != nil {
			return nil, fmt.Errorf("failed to scan owing participant: %w", err)
		}
		expense.OwingIDs = append(expense.OwingIDs, participantID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owing participants: %w", err)
	}

	return expense, nil
}

// ListExpenses reads the ledger of an event inside a single read transaction, so
// a concurrent CreateExpense is either fully visible or not visible at all.
func (s *SQLiteStore) ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, event_id, payer_id, amount, purpose, is_settlement, date, created_at
		 FROM expenses WHERE event_id = ? ORDER BY created_at, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[expense.ID] = len(expenses)
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	owerRows, err := tx.QueryContext(ctx,
		`SELECT o.expense_id, o.participant_id
		 FROM expense_owers o JOIN expenses e ON e.id = o.expense_id
		 WHERE e.event_id = ? ORDER BY o.participant_id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list owing participants: %w", err)
	}
	defer owerRows.Close()

	for owerRows.Next() {
		var expenseID, participantID string
		if err := owerRows.Scan(&expenseID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan owing participant: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].OwingIDs = append(expenses[i].OwingIDs, participantID)
		}
	}
	if err := owerRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owing participants: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes an expense from its ledger.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var eventID string
	err = tx.QueryRowContext(ctx, "SELECT event_id FROM expenses WHERE id = ?", expenseID).Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := touchEvent(ctx, tx, eventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var date sql.NullString
	if err := row.Scan(&expense.ID, &expense.EventID, &expense.PayerID, &expense.Amount,
		&expense.Purpose, &expense.IsSettlement, &date, &expense.CreatedAt); err != nil {
		return nil, err
	}
	if date.Valid && date.String != "" {
		d, err := time.Parse(dateLayout, date.String)
		if err != nil {
			return nil, fmt.Errorf("invalid expense date %q: %w", date.String, err)
		}
		expense.Date = d
	}
	return expense, nil
}
