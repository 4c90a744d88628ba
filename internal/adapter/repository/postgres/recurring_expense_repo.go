package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// recurringExpenseRepository implements domain.RecurringExpenseRepository
type recurringExpenseRepository struct {
	db *DB
}

// NewRecurringExpenseRepository creates a new recurring expense repository
func NewRecurringExpenseRepository(db *DB) domain.RecurringExpenseRepository {
	return &recurringExpenseRepository{db: db}
}

const recurringExpenseColumns = `
	id, user_id, name, amount, currency, recurrence, day_of_month,
	category_id, account_id, start_date, end_date, last_generated_date,
	next_due_date, is_active, created_at, updated_at
`

// GetByID retrieves a recurring expense by its ID.
func (r *recurringExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringExpense, error) {
	query := `SELECT ` + recurringExpenseColumns + ` FROM recurring_expenses WHERE id = $1`

	e, err := scanRecurringExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recurring expense %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recurring expense by ID: %w", err)
	}
	return e, nil
}

// ListByUser retrieves all recurring expenses owned by a user.
func (r *recurringExpenseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringExpense, error) {
	query := `SELECT ` + recurringExpenseColumns + ` FROM recurring_expenses WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}
	defer rows.Close()

	return collectRecurringExpenses(rows)
}

// ListDue retrieves active recurring expenses whose next due date has been
// reached as of the given instant.
func (r *recurringExpenseRepository) ListDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringExpense, error) {
	query := `
		SELECT ` + recurringExpenseColumns + `
		FROM recurring_expenses
		WHERE is_active AND next_due_date IS NOT NULL AND next_due_date <= $1
		ORDER BY next_due_date
	`

	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring expenses: %w", err)
	}
	defer rows.Close()

	return collectRecurringExpenses(rows)
}

// Create persists a new recurring expense.
func (r *recurringExpenseRepository) Create(ctx context.Context, e *domain.RecurringExpense) error {
	query := `
		INSERT INTO recurring_expenses (` + recurringExpenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.Name,
		e.Amount.Amount.String(),
		e.Amount.Currency,
		string(e.Recurrence),
		e.DayOfMonth,
		e.CategoryID,
		e.AccountID,
		e.StartDate,
		e.EndDate,
		e.LastGeneratedDate,
		e.NextDueDate,
		e.IsActive,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recurring expense: %w", err)
	}
	return nil
}

// Update persists a mutated recurring expense.
func (r *recurringExpenseRepository) Update(ctx context.Context, e *domain.RecurringExpense) error {
	query := `
		UPDATE recurring_expenses
		SET name = $2, amount = $3, recurrence = $4, day_of_month = $5,
		    category_id = $6, account_id = $7, start_date = $8, end_date = $9,
		    last_generated_date = $10, next_due_date = $11, is_active = $12,
		    updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.Amount.Amount.String(),
		string(e.Recurrence),
		e.DayOfMonth,
		e.CategoryID,
		e.AccountID,
		e.StartDate,
		e.EndDate,
		e.LastGeneratedDate,
		e.NextDueDate,
		e.IsActive,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recurring expense %s: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

func collectRecurringExpenses(rows *sql.Rows) ([]*domain.RecurringExpense, error) {
	expenses := make([]*domain.RecurringExpense, 0)
	for rows.Next() {
		e, err := scanRecurringExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurring expenses: %w", err)
	}
	return expenses, nil
}

func scanRecurringExpense(row rowScanner) (*domain.RecurringExpense, error) {
	var (
		e             domain.RecurringExpense
		amountStr     string
		currency      string
		recurrence    string
		endDate       sql.NullTime
		lastGenerated sql.NullTime
		nextDue       sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&amountStr,
		&currency,
		&recurrence,
		&e.DayOfMonth,
		&e.CategoryID,
		&e.AccountID,
		&e.StartDate,
		&endDate,
		&lastGenerated,
		&nextDue,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	e.Amount = domain.Money{Amount: amount, Currency: currency}
	e.Recurrence = domain.Recurrence(recurrence)

	if endDate.Valid {
		t := endDate.Time
		e.EndDate = &t
	}
	if lastGenerated.Valid {
		t := lastGenerated.Time
		e.LastGeneratedDate = &t
	}
	if nextDue.Valid {
		t := nextDue.Time
		e.NextDueDate = &t
	}
	return &e, nil
}
