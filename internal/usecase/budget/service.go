package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// AlertPublisher forwards budget threshold events to the notification
// collaborator. Delivery is best-effort; failures are logged, not returned.
type AlertPublisher interface {
	BudgetNearLimit(ctx context.Context, budget *domain.Budget) error
	BudgetExceeded(ctx context.Context, budget *domain.Budget) error
}

// Service handles budget orchestration: it loads one aggregate, invokes one
// mutating operation, persists the result, and forwards post-conditions to
// the alert publisher.
type Service struct {
	Budgets domain.BudgetRepository
	Alerts  AlertPublisher
	Logger  *zap.Logger
}

// NewService creates a new budget Service instance.
func NewService(budgets domain.BudgetRepository, alerts AlertPublisher, logger *zap.Logger) *Service {
	return &Service{
		Budgets: budgets,
		Alerts:  alerts,
		Logger:  logger,
	}
}

// CreateBudgetInput represents the input for creating a budget.
type CreateBudgetInput struct {
	Name       string
	Limit      decimal.Decimal
	Currency   string
	Period     domain.BudgetPeriod
	UserID     uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	CategoryID *uuid.UUID
}

// CreateBudget validates and persists a new budget.
func (s *Service) CreateBudget(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	b, err := domain.NewBudget(input.Name, input.Limit, input.Currency, input.Period, input.UserID, input.StartDate, input.EndDate, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.Budgets.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}

	s.Logger.Info("budget created",
		zap.String("budget_id", b.ID.String()),
		zap.String("user_id", b.UserID.String()),
		zap.String("limit", b.Limit.String()),
	)
	return b, nil
}

// RecordSpend applies an expense amount against the budget and evaluates the
// alert thresholds afterwards, publishing at most one alert per call.
func (s *Service) RecordSpend(ctx context.Context, budgetID uuid.UUID, amount domain.Money) (*domain.Budget, error) {
	b, err := s.Budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.AddExpense(amount); err != nil {
		return nil, err
	}

	if err := s.Budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}

	s.publishAlerts(ctx, b)
	return b, nil
}

// ReverseSpend removes previously recorded spend, e.g. when the underlying
// expense is deleted. No alerts are evaluated on reversal.
func (s *Service) ReverseSpend(ctx context.Context, budgetID uuid.UUID, amount domain.Money) (*domain.Budget, error) {
	b, err := s.Budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.RemoveExpense(amount); err != nil {
		return nil, err
	}

	if err := s.Budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// ChangeLimit replaces the budget limit, keeping the existing currency.
func (s *Service) ChangeLimit(ctx context.Context, budgetID uuid.UUID, limit decimal.Decimal) (*domain.Budget, error) {
	b, err := s.Budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.UpdateLimit(limit); err != nil {
		return nil, err
	}

	if err := s.Budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// AssignCategory links a category to the budget.
func (s *Service) AssignCategory(ctx context.Context, budgetID, categoryID uuid.UUID) (*domain.Budget, error) {
	b, err := s.Budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	b.AddCategory(categoryID)
	if err := s.Budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// UnassignCategory unlinks a category from the budget.
func (s *Service) UnassignCategory(ctx context.Context, budgetID, categoryID uuid.UUID) (*domain.Budget, error) {
	b, err := s.Budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	b.RemoveCategory(categoryID)
	if err := s.Budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// Deactivate permanently deactivates a budget. The domain operation is a
// guard-free one-way switch, so the service rejects the repeat call.
func (s *Service) Deactivate(ctx context.Context, budgetID uuid.UUID) (*domain.Budget, error) {
	b, err := s.Budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if !b.IsActive {
		return nil, fmt.Errorf("%w: budget is already inactive", domain.ErrInvalidTransition)
	}

	b.Deactivate()
	if err := s.Budgets.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return b, nil
}

// GetBudget retrieves a single budget.
func (s *Service) GetBudget(ctx context.Context, budgetID uuid.UUID) (*domain.Budget, error) {
	return s.Budgets.GetByID(ctx, budgetID)
}

// ListBudgets retrieves all budgets owned by a user.
func (s *Service) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	return s.Budgets.ListByUser(ctx, userID)
}

func (s *Service) publishAlerts(ctx context.Context, b *domain.Budget) {
	if !b.AlertsEnabled {
		return
	}

	switch {
	case b.IsOverBudget():
		if err := s.Alerts.BudgetExceeded(ctx, b); err != nil {
			s.Logger.Warn("failed to publish budget exceeded alert",
				zap.String("budget_id", b.ID.String()),
				zap.Error(err),
			)
		}
	case b.IsNearLimit(domain.DefaultAlertThreshold):
		if err := s.Alerts.BudgetNearLimit(ctx, b); err != nil {
			s.Logger.Warn("failed to publish budget near-limit alert",
				zap.String("budget_id", b.ID.String()),
				zap.Error(err),
			)
		}
	}
}
