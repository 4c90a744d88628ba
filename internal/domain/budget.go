package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the recurrence window a budget covers.
type BudgetPeriod string

const (
	BudgetPeriodWeekly    BudgetPeriod = "WEEKLY"
	BudgetPeriodMonthly   BudgetPeriod = "MONTHLY"
	BudgetPeriodQuarterly BudgetPeriod = "QUARTERLY"
	BudgetPeriodYearly    BudgetPeriod = "YEARLY"
	BudgetPeriodCustom    BudgetPeriod = "CUSTOM"
)

// Valid reports whether the period is one of the known values.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodQuarterly, BudgetPeriodYearly, BudgetPeriodCustom:
		return true
	}
	return false
}

const maxBudgetNameLength = 100

// DefaultAlertThreshold is the percentage of the limit at which a budget is
// reported as near its limit.
var DefaultAlertThreshold = Percentage{Value: decimal.NewFromInt(80)}

// Budget tracks spend against a limit over a date range. Limit and Spent are
// always in the same currency; Spent only ever changes through AddExpense
// and RemoveExpense.
type Budget struct {
	ID            uuid.UUID
	Name          string
	Limit         Money
	Spent         Money
	Period        BudgetPeriod
	Range         DateRange
	CategoryIDs   []uuid.UUID
	UserID        uuid.UUID
	IsActive      bool
	AlertsEnabled bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBudget validates input and constructs an active budget with zero spend.
func NewBudget(name string, limit decimal.Decimal, currency string, period BudgetPeriod, userID uuid.UUID, start, end time.Time, categoryID *uuid.UUID) (*Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("budget name cannot be empty")
	}
	if len(name) > maxBudgetNameLength {
		return nil, validationErrorf("budget name cannot exceed %d characters", maxBudgetNameLength)
	}
	if !period.Valid() {
		return nil, validationErrorf("invalid budget period %q", period)
	}

	limitMoney, err := NewMoney(limit, currency)
	if err != nil {
		return nil, err
	}
	if !limitMoney.IsPositive() {
		return nil, validationErrorf("budget limit must be positive")
	}

	dateRange, err := NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &Budget{
		ID:            uuid.New(),
		Name:          name,
		Limit:         limitMoney,
		Spent:         Zero(limitMoney.Currency),
		Period:        period,
		Range:         dateRange,
		UserID:        userID,
		IsActive:      true,
		AlertsEnabled: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if categoryID != nil {
		b.CategoryIDs = []uuid.UUID{*categoryID}
	}
	return b, nil
}

// AddExpense records spend against the budget. Fails on currency mismatch,
// leaving Spent unchanged.
func (b *Budget) AddExpense(amount Money) error {
	spent, err := b.Spent.Add(amount)
	if err != nil {
		return err
	}
	b.Spent = spent
	b.touch()
	return nil
}

// RemoveExpense reverses previously recorded spend, e.g. when an expense is
// deleted or edited.
func (b *Budget) RemoveExpense(amount Money) error {
	spent, err := b.Spent.Subtract(amount)
	if err != nil {
		return err
	}
	b.Spent = spent
	b.touch()
	return nil
}

// UpdateLimit replaces the limit, keeping the existing currency. Fails if
// the new limit is not positive, leaving the budget unchanged.
func (b *Budget) UpdateLimit(limit decimal.Decimal) error {
	next, err := NewMoney(limit, b.Limit.Currency)
	if err != nil {
		return err
	}
	if !next.IsPositive() {
		return validationErrorf("budget limit must be positive")
	}
	b.Limit = next
	b.touch()
	return nil
}

// AddCategory links a category to the budget. Idempotent.
func (b *Budget) AddCategory(id uuid.UUID) {
	if b.HasCategory(id) {
		return
	}
	b.CategoryIDs = append(b.CategoryIDs, id)
	b.touch()
}

// RemoveCategory unlinks a category from the budget. Idempotent.
func (b *Budget) RemoveCategory(id uuid.UUID) {
	for i, existing := range b.CategoryIDs {
		if existing == id {
			b.CategoryIDs = append(b.CategoryIDs[:i], b.CategoryIDs[i+1:]...)
			b.touch()
			return
		}
	}
}

// HasCategory reports whether the category is linked to the budget.
func (b *Budget) HasCategory(id uuid.UUID) bool {
	for _, existing := range b.CategoryIDs {
		if existing == id {
			return true
		}
	}
	return false
}

// Deactivate is one-way; there is no reactivation operation. Calling it on
// an already-inactive budget is a no-op, callers that need to reject the
// repeat must guard themselves.
func (b *Budget) Deactivate() {
	if !b.IsActive {
		return
	}
	b.IsActive = false
	b.touch()
}

// Remaining is limit minus spent. It goes negative once the budget is
// exceeded, signalling the overage amount.
func (b *Budget) Remaining() Money {
	remaining, err := b.Limit.Subtract(b.Spent)
	if err != nil {
		return Zero(b.Limit.Currency)
	}
	return remaining
}

// PercentageUsed is the spent share of the limit, rounded to two decimal
// places. Returns zero if the limit is not positive.
func (b *Budget) PercentageUsed() decimal.Decimal {
	if !b.Limit.Amount.IsPositive() {
		return decimal.Zero
	}
	return b.Spent.Amount.Div(b.Limit.Amount).Mul(hundred).Round(2)
}

// IsOverBudget reports whether spend has exceeded the limit.
func (b *Budget) IsOverBudget() bool {
	return b.Spent.Amount.GreaterThan(b.Limit.Amount)
}

// IsNearLimit reports whether spend has crossed the threshold percentage of
// the limit without exceeding it.
func (b *Budget) IsNearLimit(threshold Percentage) bool {
	return !b.IsOverBudget() && b.PercentageUsed().GreaterThanOrEqual(threshold.Value)
}

func (b *Budget) touch() {
	b.UpdatedAt = time.Now().UTC()
}
