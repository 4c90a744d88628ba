package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "ACTIVE"
	GoalStatusPaused    GoalStatus = "PAUSED"
	GoalStatusCompleted GoalStatus = "COMPLETED"
	GoalStatusCancelled GoalStatus = "CANCELLED"
)

// GoalContribution is a single payment toward a savings goal. Contributions
// are immutable once created and owned by exactly one goal; the list is
// append-only.
type GoalContribution struct {
	ID            uuid.UUID
	SavingsGoalID uuid.UUID
	Amount        Money
	Date          time.Time
	Notes         string
}

// NewGoalContribution validates and constructs a contribution.
func NewGoalContribution(goalID uuid.UUID, amount Money, date time.Time, notes string) (GoalContribution, error) {
	if !amount.IsPositive() {
		return GoalContribution{}, validationErrorf("contribution amount must be positive")
	}
	return GoalContribution{
		ID:            uuid.New(),
		SavingsGoalID: goalID,
		Amount:        amount,
		Date:          date,
		Notes:         notes,
	}, nil
}

// SavingsGoal tracks progress toward a target amount via a list of
// contributions. Target and Current are always in the same currency.
type SavingsGoal struct {
	ID              uuid.UUID
	Name            string
	Target          Money
	Current         Money
	TargetDate      *time.Time
	UserID          uuid.UUID
	LinkedAccountID *uuid.UUID
	Status          GoalStatus
	Contributions   []GoalContribution
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewSavingsGoal validates input and constructs an active goal with zero
// progress. The target date, if given, must be strictly in the future.
func NewSavingsGoal(name string, target decimal.Decimal, currency string, userID uuid.UUID, targetDate *time.Time, linkedAccountID *uuid.UUID) (*SavingsGoal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("goal name cannot be empty")
	}
	if len(name) > maxBudgetNameLength {
		return nil, validationErrorf("goal name cannot exceed %d characters", maxBudgetNameLength)
	}

	targetMoney, err := NewMoney(target, currency)
	if err != nil {
		return nil, err
	}
	if !targetMoney.IsPositive() {
		return nil, validationErrorf("goal target amount must be positive")
	}
	if targetDate != nil && !targetDate.After(time.Now().UTC()) {
		return nil, validationErrorf("goal target date must be in the future")
	}

	now := time.Now().UTC()
	return &SavingsGoal{
		ID:              uuid.New(),
		Name:            name,
		Target:          targetMoney,
		Current:         Zero(targetMoney.Currency),
		TargetDate:      targetDate,
		UserID:          userID,
		LinkedAccountID: linkedAccountID,
		Status:          GoalStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AddContribution applies a contribution and, as part of the same operation,
// checks whether the goal just reached its target. There is no intermediate
// state where the amount is updated but the status is stale.
func (g *SavingsGoal) AddContribution(c GoalContribution) error {
	if g.Status != GoalStatusActive {
		return fmt.Errorf("%w: cannot contribute to a %s goal", ErrGoalNotActive, strings.ToLower(string(g.Status)))
	}

	current, err := g.Current.Add(c.Amount)
	if err != nil {
		return err
	}

	c.SavingsGoalID = g.ID
	g.Current = current
	g.Contributions = append(g.Contributions, c)
	if g.Current.Amount.GreaterThanOrEqual(g.Target.Amount) {
		now := time.Now().UTC()
		g.Status = GoalStatusCompleted
		g.CompletedAt = &now
	}
	g.touch()
	return nil
}

// Withdraw reduces the saved amount. No floor is enforced, so the balance
// may go negative. A completed goal that drops back below its target reverts
// to active and loses its completion stamp.
func (g *SavingsGoal) Withdraw(amount Money) error {
	current, err := g.Current.Subtract(amount)
	if err != nil {
		return err
	}

	g.Current = current
	if g.Status == GoalStatusCompleted && g.Current.Amount.LessThan(g.Target.Amount) {
		g.Status = GoalStatusActive
		g.CompletedAt = nil
	}
	g.touch()
	return nil
}

// Pause suspends an active goal.
func (g *SavingsGoal) Pause() error {
	if g.Status != GoalStatusActive {
		return fmt.Errorf("%w: only an active goal can be paused", ErrInvalidTransition)
	}
	g.Status = GoalStatusPaused
	g.touch()
	return nil
}

// Resume reactivates a paused goal.
func (g *SavingsGoal) Resume() error {
	if g.Status != GoalStatusPaused {
		return fmt.Errorf("%w: only a paused goal can be resumed", ErrInvalidTransition)
	}
	g.Status = GoalStatusActive
	g.touch()
	return nil
}

// Cancel is terminal and deliberately unguarded: a goal may be cancelled
// from any state, including completed.
func (g *SavingsGoal) Cancel() {
	g.Status = GoalStatusCancelled
	g.touch()
}

// SavingsGoalPatch is a partial update; nil fields are left untouched.
type SavingsGoalPatch struct {
	Name            *string
	TargetAmount    *decimal.Decimal
	TargetDate      *time.Time
	LinkedAccountID *uuid.UUID
}

// Update applies the non-nil fields of the patch. Each present field is
// validated independently; if any fails, the goal is left unchanged.
func (g *SavingsGoal) Update(patch SavingsGoalPatch) error {
	name := g.Name
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return validationErrorf("goal name cannot be empty")
		}
		if len(name) > maxBudgetNameLength {
			return validationErrorf("goal name cannot exceed %d characters", maxBudgetNameLength)
		}
	}

	target := g.Target
	if patch.TargetAmount != nil {
		next, err := NewMoney(*patch.TargetAmount, g.Target.Currency)
		if err != nil {
			return err
		}
		if !next.IsPositive() {
			return validationErrorf("goal target amount must be positive")
		}
		target = next
	}

	targetDate := g.TargetDate
	if patch.TargetDate != nil {
		if !patch.TargetDate.After(time.Now().UTC()) {
			return validationErrorf("goal target date must be in the future")
		}
		targetDate = patch.TargetDate
	}

	linkedAccountID := g.LinkedAccountID
	if patch.LinkedAccountID != nil {
		linkedAccountID = patch.LinkedAccountID
	}

	g.Name = name
	g.Target = target
	g.TargetDate = targetDate
	g.LinkedAccountID = linkedAccountID
	g.touch()
	return nil
}

// ProgressPercentage is the saved share of the target, rounded to two
// decimal places.
func (g *SavingsGoal) ProgressPercentage() decimal.Decimal {
	if !g.Target.Amount.IsPositive() {
		return decimal.Zero
	}
	return g.Current.Amount.Div(g.Target.Amount).Mul(hundred).Round(2)
}

// RemainingAmount is target minus current. Negative once the goal is
// over-funded; falls back to zero only if the subtraction itself fails.
func (g *SavingsGoal) RemainingAmount() Money {
	remaining, err := g.Target.Subtract(g.Current)
	if err != nil {
		return Zero(g.Target.Currency)
	}
	return remaining
}

// DaysRemaining is the number of whole days until the target date, floored
// at zero. Nil when the goal has no target date.
func (g *SavingsGoal) DaysRemaining() *int {
	if g.TargetDate == nil {
		return nil
	}
	days := int(time.Until(*g.TargetDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

// RequiredMonthlyContribution spreads the remaining amount across the months
// left before the target date (30-day months, rounded up). Nil when there is
// no target date or no time left.
func (g *SavingsGoal) RequiredMonthlyContribution() *Money {
	days := g.DaysRemaining()
	if days == nil || *days <= 0 {
		return nil
	}
	months := decimal.NewFromInt(int64(*days)).Div(decimal.NewFromInt(30)).Ceil()
	remaining := g.RemainingAmount()
	required := Money{Amount: remaining.Amount.Div(months).Round(2), Currency: remaining.Currency}
	return &required
}

func (g *SavingsGoal) touch() {
	g.UpdatedAt = time.Now().UTC()
}
