package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBudget(t *testing.T, limit int64, currency string) *Budget {
	t.Helper()
	b, err := NewBudget(
		"Groceries",
		decimal.NewFromInt(limit),
		currency,
		BudgetPeriodMonthly,
		uuid.New(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		nil,
	)
	require.NoError(t, err)
	return b
}

func TestNewBudget(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	tests := []struct {
		name       string
		budgetName string
		limit      decimal.Decimal
		currency   string
		period     BudgetPeriod
		start      time.Time
		end        time.Time
		wantErr    bool
	}{
		{
			name:       "valid budget should pass",
			budgetName: "Groceries",
			limit:      decimal.NewFromInt(100),
			currency:   "USD",
			period:     BudgetPeriodMonthly,
			start:      start,
			end:        end,
		},
		{
			name:       "empty name should fail",
			budgetName: "   ",
			limit:      decimal.NewFromInt(100),
			currency:   "USD",
			period:     BudgetPeriodMonthly,
			start:      start,
			end:        end,
			wantErr:    true,
		},
		{
			name:       "name over 100 characters should fail",
			budgetName: strings.Repeat("a", 101),
			limit:      decimal.NewFromInt(100),
			currency:   "USD",
			period:     BudgetPeriodMonthly,
			start:      start,
			end:        end,
			wantErr:    true,
		},
		{
			name:       "zero limit should fail",
			budgetName: "Groceries",
			limit:      decimal.Zero,
			currency:   "USD",
			period:     BudgetPeriodMonthly,
			start:      start,
			end:        end,
			wantErr:    true,
		},
		{
			name:       "negative limit should fail",
			budgetName: "Groceries",
			limit:      decimal.NewFromInt(-5),
			currency:   "USD",
			period:     BudgetPeriodMonthly,
			start:      start,
			end:        end,
			wantErr:    true,
		},
		{
			name:       "invalid period should fail",
			budgetName: "Groceries",
			limit:      decimal.NewFromInt(100),
			currency:   "USD",
			period:     BudgetPeriod("DAILY"),
			start:      start,
			end:        end,
			wantErr:    true,
		},
		{
			name:       "end before start should fail",
			budgetName: "Groceries",
			limit:      decimal.NewFromInt(100),
			currency:   "USD",
			period:     BudgetPeriodCustom,
			start:      end,
			end:        start,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBudget(tt.budgetName, tt.limit, tt.currency, tt.period, userID, tt.start, tt.end, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, b.IsActive)
			assert.True(t, b.AlertsEnabled)
			assert.True(t, b.Spent.Equal(Zero("USD")))
			assert.Equal(t, b.Limit.Currency, b.Spent.Currency)
		})
	}
}

func TestBudget_SpendLifecycle(t *testing.T) {
	b := newTestBudget(t, 100, "USD")

	spend, _ := NewMoney(decimal.NewFromInt(80), "USD")
	require.NoError(t, b.AddExpense(spend))

	assert.Equal(t, "80", b.PercentageUsed().String())
	assert.True(t, b.IsNearLimit(DefaultAlertThreshold))
	assert.False(t, b.IsOverBudget())

	more, _ := NewMoney(decimal.NewFromInt(30), "USD")
	require.NoError(t, b.AddExpense(more))

	assert.True(t, b.IsOverBudget())
	assert.False(t, b.IsNearLimit(DefaultAlertThreshold))
	assert.True(t, b.Remaining().IsNegative())
	assert.True(t, b.Remaining().Amount.Equal(decimal.NewFromInt(-10)))
}

func TestBudget_AddExpenseCurrencyMismatchLeavesSpentUnchanged(t *testing.T) {
	b := newTestBudget(t, 100, "USD")

	eur, _ := NewMoney(decimal.NewFromInt(1), "EUR")
	err := b.AddExpense(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	assert.True(t, b.Spent.Equal(Zero("USD")))
}

func TestBudget_RemoveExpense(t *testing.T) {
	b := newTestBudget(t, 100, "USD")

	spend, _ := NewMoney(decimal.NewFromInt(50), "USD")
	require.NoError(t, b.AddExpense(spend))

	reversal, _ := NewMoney(decimal.NewFromInt(20), "USD")
	require.NoError(t, b.RemoveExpense(reversal))
	assert.True(t, b.Spent.Amount.Equal(decimal.NewFromInt(30)))

	eur, _ := NewMoney(decimal.NewFromInt(5), "EUR")
	assert.ErrorIs(t, b.RemoveExpense(eur), ErrCurrencyMismatch)
}

func TestBudget_UpdateLimit(t *testing.T) {
	b := newTestBudget(t, 100, "USD")

	require.NoError(t, b.UpdateLimit(decimal.NewFromInt(200)))
	assert.True(t, b.Limit.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "USD", b.Limit.Currency)

	err := b.UpdateLimit(decimal.Zero)
	assert.Error(t, err)
	assert.True(t, b.Limit.Amount.Equal(decimal.NewFromInt(200)))

	err = b.UpdateLimit(decimal.NewFromInt(-10))
	assert.Error(t, err)
	assert.True(t, b.Limit.Amount.Equal(decimal.NewFromInt(200)))
}

func TestBudget_CategoryMembershipIsIdempotent(t *testing.T) {
	b := newTestBudget(t, 100, "USD")
	catID := uuid.New()

	b.AddCategory(catID)
	b.AddCategory(catID)
	assert.Len(t, b.CategoryIDs, 1)
	assert.True(t, b.HasCategory(catID))

	b.RemoveCategory(catID)
	b.RemoveCategory(catID)
	assert.Empty(t, b.CategoryIDs)
	assert.False(t, b.HasCategory(catID))
}

func TestBudget_DeactivateIsOneWay(t *testing.T) {
	b := newTestBudget(t, 100, "USD")

	b.Deactivate()
	assert.False(t, b.IsActive)

	// Repeat calls are no-ops.
	b.Deactivate()
	assert.False(t, b.IsActive)
}

func TestBudget_DerivedQueriesDoNotMutate(t *testing.T) {
	b := newTestBudget(t, 100, "USD")
	spend, _ := NewMoney(decimal.NewFromInt(40), "USD")
	require.NoError(t, b.AddExpense(spend))

	before := b.UpdatedAt
	_ = b.Remaining()
	_ = b.PercentageUsed()
	_ = b.IsOverBudget()
	_ = b.IsNearLimit(DefaultAlertThreshold)

	assert.Equal(t, before, b.UpdatedAt)
	assert.True(t, b.Spent.Amount.Equal(decimal.NewFromInt(40)))
}
