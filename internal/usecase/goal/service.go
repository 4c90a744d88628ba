package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// EventPublisher forwards goal lifecycle events to the notification
// collaborator.
type EventPublisher interface {
	GoalCompleted(ctx context.Context, goal *domain.SavingsGoal) error
}

// Service handles savings goal orchestration.
type Service struct {
	Goals  domain.SavingsGoalRepository
	Events EventPublisher
	Logger *zap.Logger
}

// NewService creates a new goal Service instance.
func NewService(goals domain.SavingsGoalRepository, events EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		Goals:  goals,
		Events: events,
		Logger: logger,
	}
}

// CreateGoalInput represents the input for creating a savings goal.
type CreateGoalInput struct {
	Name            string
	Target          decimal.Decimal
	Currency        string
	UserID          uuid.UUID
	TargetDate      *time.Time
	LinkedAccountID *uuid.UUID
}

// CreateGoal validates and persists a new savings goal.
func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.SavingsGoal, error) {
	g, err := domain.NewSavingsGoal(input.Name, input.Target, input.Currency, input.UserID, input.TargetDate, input.LinkedAccountID)
	if err != nil {
		return nil, err
	}

	if err := s.Goals.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	s.Logger.Info("savings goal created",
		zap.String("goal_id", g.ID.String()),
		zap.String("user_id", g.UserID.String()),
		zap.String("target", g.Target.String()),
	)
	return g, nil
}

// Contribute applies a contribution to the goal and publishes a completion
// event when the contribution pushes the goal over its target.
func (s *Service) Contribute(ctx context.Context, goalID uuid.UUID, amount domain.Money, date time.Time, notes string) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	c, err := domain.NewGoalContribution(g.ID, amount, date, notes)
	if err != nil {
		return nil, err
	}

	if err := g.AddContribution(c); err != nil {
		return nil, err
	}

	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	if g.Status == domain.GoalStatusCompleted {
		if err := s.Events.GoalCompleted(ctx, g); err != nil {
			s.Logger.Warn("failed to publish goal completed event",
				zap.String("goal_id", g.ID.String()),
				zap.Error(err),
			)
		}
	}
	return g, nil
}

// Withdraw removes an amount from the goal's saved balance.
func (s *Service) Withdraw(ctx context.Context, goalID uuid.UUID, amount domain.Money) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if err := g.Withdraw(amount); err != nil {
		return nil, err
	}

	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}

// Pause suspends an active goal.
func (s *Service) Pause(ctx context.Context, goalID uuid.UUID) (*domain.SavingsGoal, error) {
	return s.transition(ctx, goalID, (*domain.SavingsGoal).Pause)
}

// Resume reactivates a paused goal.
func (s *Service) Resume(ctx context.Context, goalID uuid.UUID) (*domain.SavingsGoal, error) {
	return s.transition(ctx, goalID, (*domain.SavingsGoal).Resume)
}

// Cancel terminally cancels a goal from any state.
func (s *Service) Cancel(ctx context.Context, goalID uuid.UUID) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	g.Cancel()
	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}

// UpdateGoal applies a partial update to the goal.
func (s *Service) UpdateGoal(ctx context.Context, goalID uuid.UUID, patch domain.SavingsGoalPatch) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if err := g.Update(patch); err != nil {
		return nil, err
	}

	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}

// GetGoal retrieves a single goal including its contributions.
func (s *Service) GetGoal(ctx context.Context, goalID uuid.UUID) (*domain.SavingsGoal, error) {
	return s.Goals.GetByID(ctx, goalID)
}

// ListGoals retrieves all goals owned by a user.
func (s *Service) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	return s.Goals.ListByUser(ctx, userID)
}

// Progress is a read-only snapshot of a goal's derived state.
type Progress struct {
	Goal                        *domain.SavingsGoal
	ProgressPercentage          decimal.Decimal
	RemainingAmount             domain.Money
	DaysRemaining               *int
	RequiredMonthlyContribution *domain.Money
}

// GetProgress retrieves a goal and evaluates its derived queries.
func (s *Service) GetProgress(ctx context.Context, goalID uuid.UUID) (*Progress, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	return &Progress{
		Goal:                        g,
		ProgressPercentage:          g.ProgressPercentage(),
		RemainingAmount:             g.RemainingAmount(),
		DaysRemaining:               g.DaysRemaining(),
		RequiredMonthlyContribution: g.RequiredMonthlyContribution(),
	}, nil
}

func (s *Service) transition(ctx context.Context, goalID uuid.UUID, op func(*domain.SavingsGoal) error) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if err := op(g); err != nil {
		return nil, err
	}

	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}
