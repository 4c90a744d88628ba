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

// recurringIncomeRepository implements domain.RecurringIncomeRepository
type recurringIncomeRepository struct {
	db *DB
}

// NewRecurringIncomeRepository creates a new recurring income repository
func NewRecurringIncomeRepository(db *DB) domain.RecurringIncomeRepository {
	return &recurringIncomeRepository{db: db}
}

const recurringIncomeColumns = `
	id, user_id, name, amount, currency, recurrence, source_id, account_id,
	start_date, end_date, last_generated_date, next_due_date, is_active,
	created_at, updated_at
`

// GetByID retrieves a recurring income by its ID.
func (r *recurringIncomeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringIncome, error) {
	query := `SELECT ` + recurringIncomeColumns + ` FROM recurring_incomes WHERE id = $1`

	in, err := scanRecurringIncome(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recurring income %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recurring income by ID: %w", err)
	}
	return in, nil
}

// ListByUser retrieves all recurring incomes owned by a user.
func (r *recurringIncomeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringIncome, error) {
	query := `SELECT ` + recurringIncomeColumns + ` FROM recurring_incomes WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring incomes: %w", err)
	}
	defer rows.Close()

	return collectRecurringIncomes(rows)
}

// ListDue retrieves active recurring incomes whose next due date has been
// reached as of the given instant.
func (r *recurringIncomeRepository) ListDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringIncome, error) {
	query := `
		SELECT ` + recurringIncomeColumns + `
		FROM recurring_incomes
		WHERE is_active AND next_due_date IS NOT NULL AND next_due_date <= $1
		ORDER BY next_due_date
	`

	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring incomes: %w", err)
	}
	defer rows.Close()

	return collectRecurringIncomes(rows)
}

// Create persists a new recurring income.
func (r *recurringIncomeRepository) Create(ctx context.Context, in *domain.RecurringIncome) error {
	query := `
		INSERT INTO recurring_incomes (` + recurringIncomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		in.ID,
		in.UserID,
		in.Name,
		in.Amount.Amount.String(),
		in.Amount.Currency,
		string(in.Recurrence),
		in.SourceID,
		in.AccountID,
		in.StartDate,
		in.EndDate,
		in.LastGeneratedDate,
		in.NextDueDate,
		in.IsActive,
		in.CreatedAt,
		in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recurring income: %w", err)
	}
	return nil
}

// Update persists a mutated recurring income.
func (r *recurringIncomeRepository) Update(ctx context.Context, in *domain.RecurringIncome) error {
	query := `
		UPDATE recurring_incomes
		SET name = $2, amount = $3, recurrence = $4, source_id = $5,
		    account_id = $6, start_date = $7, end_date = $8,
		    last_generated_date = $9, next_due_date = $10, is_active = $11,
		    updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		in.ID,
		in.Name,
		in.Amount.Amount.String(),
		string(in.Recurrence),
		in.SourceID,
		in.AccountID,
		in.StartDate,
		in.EndDate,
		in.LastGeneratedDate,
		in.NextDueDate,
		in.IsActive,
		in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring income: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recurring income %s: %w", in.ID, domain.ErrNotFound)
	}
	return nil
}

func collectRecurringIncomes(rows *sql.Rows) ([]*domain.RecurringIncome, error) {
	incomes := make([]*domain.RecurringIncome, 0)
	for rows.Next() {
		in, err := scanRecurringIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring income: %w", err)
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurring incomes: %w", err)
	}
	return incomes, nil
}

func scanRecurringIncome(row rowScanner) (*domain.RecurringIncome, error) {
	var (
		in            domain.RecurringIncome
		amountStr     string
		currency      string
		recurrence    string
		endDate       sql.NullTime
		lastGenerated sql.NullTime
		nextDue       sql.NullTime
	)

	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.Name,
		&amountStr,
		&currency,
		&recurrence,
		&in.SourceID,
		&in.AccountID,
		&in.StartDate,
		&endDate,
		&lastGenerated,
		&nextDue,
		&in.IsActive,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	in.Amount = domain.Money{Amount: amount, Currency: currency}
	in.Recurrence = domain.Recurrence(recurrence)

	if endDate.Valid {
		t := endDate.Time
		in.EndDate = &t
	}
	if lastGenerated.Valid {
		t := lastGenerated.Time
		in.LastGeneratedDate = &t
	}
	if nextDue.Valid {
		t := nextDue.Time
		in.NextDueDate = &t
	}
	return &in, nil
}
