package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// budgetRepository implements domain.BudgetRepository
type budgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *DB) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

const budgetColumns = `
	id, user_id, name, limit_amount, spent_amount, currency, period,
	start_date, end_date, category_ids, is_active, alerts_enabled,
	created_at, updated_at
`

// GetByID retrieves a budget by its ID, including linked category IDs.
func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("budget %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get budget by ID: %w", err)
	}
	return b, nil
}

// ListByUser retrieves all budgets owned by a user.
func (r *budgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]*domain.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// Create persists a new budget.
func (r *budgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.UserID,
		b.Name,
		b.Limit.Amount.String(),
		b.Spent.Amount.String(),
		b.Limit.Currency,
		string(b.Period),
		b.Range.Start,
		b.Range.End,
		pq.Array(uuidStrings(b.CategoryIDs)),
		b.IsActive,
		b.AlertsEnabled,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// Update persists a mutated budget, including its category IDs.
func (r *budgetRepository) Update(ctx context.Context, b *domain.Budget) error {
	query := `
		UPDATE budgets
		SET name = $2, limit_amount = $3, spent_amount = $4, period = $5,
		    start_date = $6, end_date = $7, category_ids = $8,
		    is_active = $9, alerts_enabled = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.Name,
		b.Limit.Amount.String(),
		b.Spent.Amount.String(),
		string(b.Period),
		b.Range.Start,
		b.Range.End,
		pq.Array(uuidStrings(b.CategoryIDs)),
		b.IsActive,
		b.AlertsEnabled,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget %s: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var (
		b           domain.Budget
		limitStr    string
		spentStr    string
		currency    string
		period      string
		categoryIDs pq.StringArray
	)

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&limitStr,
		&spentStr,
		&currency,
		&period,
		&b.Range.Start,
		&b.Range.End,
		&categoryIDs,
		&b.IsActive,
		&b.AlertsEnabled,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse DECIMAL columns scanned as strings
	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse limit_amount: %w", err)
	}
	spent, err := decimal.NewFromString(spentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse spent_amount: %w", err)
	}

	b.Limit = domain.Money{Amount: limit, Currency: currency}
	b.Spent = domain.Money{Amount: spent, Currency: currency}
	b.Period = domain.BudgetPeriod(period)

	b.CategoryIDs, err = parseUUIDs(categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse category_ids: %w", err)
	}
	return &b, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
