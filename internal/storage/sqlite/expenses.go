package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/exsplitter/internal/models"
	"github.com/mmynk/exsplitter/internal/storage"
)

const expenseColumns = "id, trip_id, title, amount, currency, paid_by, payer_earned, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var earned decimal.NullDecimal
	if err := row.Scan(&expense.ID, &expense.TripID, &expense.Title, &expense.Amount,
		&expense.Currency, &expense.PaidBy, &earned, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
		return nil, err
	}
	if earned.Valid {
		expense.PayerEarned = &earned.Decimal
	}
	expense.Splits = make(map[string]decimal.Decimal)
	return expense, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// CreateExpense persists a new expense and its splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	now := time.Now().Unix()
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}
	if expense.Title == "" {
		expense.Title = generateTitle("Expense", time.Unix(expense.CreatedAt, 0))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.TripID, expense.Title, expense.Amount, expense.Currency,
		expense.PaidBy, nullDecimal(expense.PayerEarned), expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, memberID := range expense.SplitMemberIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_id, position, amount) VALUES (?, ?, ?, ?)",
			expense.ID, memberID, i, expense.ShareOf(memberID),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, member_id, amount FROM expense_splits WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	if err := scanSplits(rows, map[string]*models.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpenses retrieves all expenses of a trip with their splits, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE trip_id = ? ORDER BY created_at DESC, rowid DESC",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.member_id, s.amount
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.trip_id = ? ORDER BY s.expense_id, s.position`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	if err := scanSplits(splitRows, byID); err != nil {
		return nil, err
	}

	return expenses, nil
}

// scanSplits appends split rows, in position order, to their expenses.
func scanSplits(rows *sql.Rows, byID map[string]*models.Expense) error {
	for rows.Next() {
		var expenseID, memberID string
		var amount decimal.Decimal
		if err := rows.Scan(&expenseID, &memberID, &amount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		expense, ok := byID[expenseID]
		if !ok {
			continue
		}
		expense.SplitMemberIDs = append(expense.SplitMemberIDs, memberID)
		expense.Splits[memberID] = amount
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense's fields and splits.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, currency = ?, paid_by = ?, payer_earned = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Title, expense.Amount, expense.Currency, expense.PaidBy,
		nullDecimal(expense.PayerEarned), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	} else if n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense by ID. Splits go with it.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}
