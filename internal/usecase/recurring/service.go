package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// EventPublisher forwards due-occurrence events to the collaborator that
// materializes the actual expense/income records and notifies the user.
type EventPublisher interface {
	RecurringExpenseDue(ctx context.Context, expense *domain.RecurringExpense, occurredOn time.Time) error
	RecurringIncomeDue(ctx context.Context, income *domain.RecurringIncome, occurredOn time.Time) error
}

// Service handles recurring transaction schedules: creation, lifecycle, and
// the batch generation of due occurrences.
type Service struct {
	Expenses domain.RecurringExpenseRepository
	Incomes  domain.RecurringIncomeRepository
	Events   EventPublisher
	Logger   *zap.Logger
}

// NewService creates a new recurring Service instance.
func NewService(expenses domain.RecurringExpenseRepository, incomes domain.RecurringIncomeRepository, events EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		Expenses: expenses,
		Incomes:  incomes,
		Events:   events,
		Logger:   logger,
	}
}

// CreateExpenseInput represents the input for creating a recurring expense.
type CreateExpenseInput struct {
	Name       string
	Amount     decimal.Decimal
	Currency   string
	Recurrence domain.Recurrence
	DayOfMonth int
	CategoryID uuid.UUID
	AccountID  uuid.UUID
	UserID     uuid.UUID
	StartDate  time.Time
	EndDate    *time.Time
}

// CreateExpense validates and persists a new recurring expense.
func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.RecurringExpense, error) {
	e, err := domain.NewRecurringExpense(input.Name, input.Amount, input.Currency, input.Recurrence, input.DayOfMonth, input.CategoryID, input.AccountID, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.Expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create recurring expense: %w", err)
	}

	s.Logger.Info("recurring expense created",
		zap.String("recurring_expense_id", e.ID.String()),
		zap.String("recurrence", string(e.Recurrence)),
	)
	return e, nil
}

// CreateIncomeInput represents the input for creating a recurring income.
type CreateIncomeInput struct {
	Name       string
	Amount     decimal.Decimal
	Currency   string
	Recurrence domain.Recurrence
	SourceID   uuid.UUID
	AccountID  uuid.UUID
	UserID     uuid.UUID
	StartDate  time.Time
	EndDate    *time.Time
}

// CreateIncome validates and persists a new recurring income.
func (s *Service) CreateIncome(ctx context.Context, input CreateIncomeInput) (*domain.RecurringIncome, error) {
	in, err := domain.NewRecurringIncome(input.Name, input.Amount, input.Currency, input.Recurrence, input.SourceID, input.AccountID, input.UserID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.Incomes.Create(ctx, in); err != nil {
		return nil, fmt.Errorf("create recurring income: %w", err)
	}

	s.Logger.Info("recurring income created",
		zap.String("recurring_income_id", in.ID.String()),
		zap.String("recurrence", string(in.Recurrence)),
	)
	return in, nil
}

// PauseExpense suspends generation for a recurring expense.
func (s *Service) PauseExpense(ctx context.Context, id uuid.UUID) (*domain.RecurringExpense, error) {
	return s.expenseTransition(ctx, id, (*domain.RecurringExpense).Pause)
}

// ResumeExpense reactivates a paused recurring expense.
func (s *Service) ResumeExpense(ctx context.Context, id uuid.UUID) (*domain.RecurringExpense, error) {
	return s.expenseTransition(ctx, id, (*domain.RecurringExpense).Resume)
}

// PauseIncome suspends generation for a recurring income.
func (s *Service) PauseIncome(ctx context.Context, id uuid.UUID) (*domain.RecurringIncome, error) {
	return s.incomeTransition(ctx, id, (*domain.RecurringIncome).Pause)
}

// ResumeIncome reactivates a paused recurring income.
func (s *Service) ResumeIncome(ctx context.Context, id uuid.UUID) (*domain.RecurringIncome, error) {
	return s.incomeTransition(ctx, id, (*domain.RecurringIncome).Resume)
}

// GetExpense retrieves a single recurring expense.
func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*domain.RecurringExpense, error) {
	return s.Expenses.GetByID(ctx, id)
}

// GetIncome retrieves a single recurring income.
func (s *Service) GetIncome(ctx context.Context, id uuid.UUID) (*domain.RecurringIncome, error) {
	return s.Incomes.GetByID(ctx, id)
}

// ListExpenses retrieves all recurring expenses owned by a user.
func (s *Service) ListExpenses(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringExpense, error) {
	return s.Expenses.ListByUser(ctx, userID)
}

// ListIncomes retrieves all recurring incomes owned by a user.
func (s *Service) ListIncomes(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringIncome, error) {
	return s.Incomes.ListByUser(ctx, userID)
}

// ProcessDueExpenses generates occurrences for every expense schedule due at
// or before now. A long-paused schedule resumed with a past due date is
// picked up here like any other. The event is published before the
// checkpoint advances, so a failed publish retries on the next run rather
// than silently skipping an occurrence; failures on individual schedules are
// logged and the batch continues.
func (s *Service) ProcessDueExpenses(ctx context.Context, now time.Time) (int, error) {
	due, err := s.Expenses.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due recurring expenses: %w", err)
	}

	processed := 0
	for _, e := range due {
		if err := s.Events.RecurringExpenseDue(ctx, e, now); err != nil {
			s.Logger.Error("failed to publish recurring expense occurrence",
				zap.String("recurring_expense_id", e.ID.String()),
				zap.Error(err),
			)
			continue
		}

		e.RecordGeneration(now)
		if err := s.Expenses.Update(ctx, e); err != nil {
			s.Logger.Error("failed to persist recurring expense checkpoint",
				zap.String("recurring_expense_id", e.ID.String()),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	s.Logger.Info("processed due recurring expenses",
		zap.Int("due", len(due)),
		zap.Int("processed", processed),
	)
	return processed, nil
}

// ProcessDueIncomes generates occurrences for every income schedule due at
// or before now.
func (s *Service) ProcessDueIncomes(ctx context.Context, now time.Time) (int, error) {
	due, err := s.Incomes.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due recurring incomes: %w", err)
	}

	processed := 0
	for _, in := range due {
		if err := s.Events.RecurringIncomeDue(ctx, in, now); err != nil {
			s.Logger.Error("failed to publish recurring income occurrence",
				zap.String("recurring_income_id", in.ID.String()),
				zap.Error(err),
			)
			continue
		}

		in.RecordGeneration(now)
		if err := s.Incomes.Update(ctx, in); err != nil {
			s.Logger.Error("failed to persist recurring income checkpoint",
				zap.String("recurring_income_id", in.ID.String()),
				zap.Error(err),
			)
			continue
		}
		processed++
	}

	s.Logger.Info("processed due recurring incomes",
		zap.Int("due", len(due)),
		zap.Int("processed", processed),
	)
	return processed, nil
}

func (s *Service) expenseTransition(ctx context.Context, id uuid.UUID, op func(*domain.RecurringExpense) error) (*domain.RecurringExpense, error) {
	e, err := s.Expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := op(e); err != nil {
		return nil, err
	}

	if err := s.Expenses.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update recurring expense: %w", err)
	}
	return e, nil
}

func (s *Service) incomeTransition(ctx context.Context, id uuid.UUID, op func(*domain.RecurringIncome) error) (*domain.RecurringIncome, error) {
	in, err := s.Incomes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := op(in); err != nil {
		return nil, err
	}

	if err := s.Incomes.Update(ctx, in); err != nil {
		return nil, fmt.Errorf("update recurring income: %w", err)
	}
	return in, nil
}
