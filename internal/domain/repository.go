package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BudgetRepository defines the interface for budget persistence operations.
type BudgetRepository interface {
	// GetByID retrieves a budget by its ID, including linked category IDs.
	GetByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// ListByUser retrieves all budgets owned by a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)

	// Create persists a new budget.
	Create(ctx context.Context, budget *Budget) error

	// Update persists a mutated budget, including its category IDs.
	Update(ctx context.Context, budget *Budget) error
}

// SavingsGoalRepository defines the interface for savings goal persistence
// operations. Implementations round-trip the owned contribution list.
type SavingsGoalRepository interface {
	// GetByID retrieves a goal by its ID, including its contributions in
	// insertion order.
	GetByID(ctx context.Context, id uuid.UUID) (*SavingsGoal, error)

	// ListByUser retrieves all goals owned by a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*SavingsGoal, error)

	// Create persists a new goal.
	Create(ctx context.Context, goal *SavingsGoal) error

	// Update persists a mutated goal and any newly appended contributions.
	Update(ctx context.Context, goal *SavingsGoal) error
}

// RecurringExpenseRepository defines the interface for recurring expense
// persistence operations.
type RecurringExpenseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RecurringExpense, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*RecurringExpense, error)

	// ListDue retrieves active schedules whose next due date is at or before
	// asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]*RecurringExpense, error)

	Create(ctx context.Context, expense *RecurringExpense) error

	Update(ctx context.Context, expense *RecurringExpense) error
}

// RecurringIncomeRepository defines the interface for recurring income
// persistence operations.
type RecurringIncomeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RecurringIncome, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*RecurringIncome, error)

	// ListDue retrieves active schedules whose next due date is at or before
	// asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]*RecurringIncome, error)

	Create(ctx context.Context, income *RecurringIncome) error

	Update(ctx context.Context, income *RecurringIncome) error
}
