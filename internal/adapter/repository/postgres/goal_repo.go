package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// savingsGoalRepository implements domain.SavingsGoalRepository
type savingsGoalRepository struct {
	db *DB
}

// NewSavingsGoalRepository creates a new savings goal repository
func NewSavingsGoalRepository(db *DB) domain.SavingsGoalRepository {
	return &savingsGoalRepository{db: db}
}

const goalColumns = `
	id, user_id, name, target_amount, current_amount, currency, target_date,
	linked_account_id, status, completed_at, created_at, updated_at
`

// GetByID retrieves a goal by its ID, including its contributions in
// insertion order.
func (r *savingsGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("savings goal %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get savings goal by ID: %w", err)
	}

	if err := r.loadContributions(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListByUser retrieves all goals owned by a user, including contributions.
func (r *savingsGoalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	goals := make([]*domain.SavingsGoal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate savings goals: %w", err)
	}

	for _, g := range goals {
		if err := r.loadContributions(ctx, g); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

// Create persists a new goal.
func (r *savingsGoalRepository) Create(ctx context.Context, g *domain.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.UserID,
		g.Name,
		g.Target.Amount.String(),
		g.Current.Amount.String(),
		g.Target.Currency,
		g.TargetDate,
		g.LinkedAccountID,
		string(g.Status),
		g.CompletedAt,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

// Update persists a mutated goal and any newly appended contributions.
// Contributions are append-only, so existing rows are never touched.
func (r *savingsGoalRepository) Update(ctx context.Context, g *domain.SavingsGoal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE savings_goals
		SET name = $2, target_amount = $3, current_amount = $4, target_date = $5,
		    linked_account_id = $6, status = $7, completed_at = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, query,
		g.ID,
		g.Name,
		g.Target.Amount.String(),
		g.Current.Amount.String(),
		g.TargetDate,
		g.LinkedAccountID,
		string(g.Status),
		g.CompletedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update savings goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("savings goal %s: %w", g.ID, domain.ErrNotFound)
	}

	insert := `
		INSERT INTO goal_contributions (id, savings_goal_id, amount, currency, contributed_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	for _, c := range g.Contributions {
		_, err := tx.ExecContext(ctx, insert,
			c.ID,
			c.SavingsGoalID,
			c.Amount.Amount.String(),
			c.Amount.Currency,
			c.Date,
			c.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert goal contribution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit savings goal update: %w", err)
	}
	return nil
}

func (r *savingsGoalRepository) loadContributions(ctx context.Context, g *domain.SavingsGoal) error {
	query := `
		SELECT id, savings_goal_id, amount, currency, contributed_at, notes
		FROM goal_contributions
		WHERE savings_goal_id = $1
		ORDER BY contributed_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, g.ID)
	if err != nil {
		return fmt.Errorf("failed to load goal contributions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c         domain.GoalContribution
			amountStr string
			currency  string
		)
		if err := rows.Scan(&c.ID, &c.SavingsGoalID, &amountStr, &currency, &c.Date, &c.Notes); err != nil {
			return fmt.Errorf("failed to scan goal contribution: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("failed to parse contribution amount: %w", err)
		}
		c.Amount = domain.Money{Amount: amount, Currency: currency}
		g.Contributions = append(g.Contributions, c)
	}
	return rows.Err()
}

func scanGoal(row rowScanner) (*domain.SavingsGoal, error) {
	var (
		g             domain.SavingsGoal
		targetStr     string
		currentStr    string
		currency      string
		status        string
		targetDate    sql.NullTime
		linkedAccount sql.NullString
		completedAt   sql.NullTime
	)

	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&targetStr,
		&currentStr,
		&currency,
		&targetDate,
		&linkedAccount,
		&status,
		&completedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	target, err := decimal.NewFromString(targetStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target_amount: %w", err)
	}
	current, err := decimal.NewFromString(currentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_amount: %w", err)
	}

	g.Target = domain.Money{Amount: target, Currency: currency}
	g.Current = domain.Money{Amount: current, Currency: currency}
	g.Status = domain.GoalStatus(status)

	if targetDate.Valid {
		t := targetDate.Time
		g.TargetDate = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		g.CompletedAt = &t
	}
	if linkedAccount.Valid {
		id, err := uuid.Parse(linkedAccount.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse linked_account_id: %w", err)
		}
		g.LinkedAccountID = &id
	}
	return &g, nil
}
