package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name         string
		amount       decimal.Decimal
		currency     string
		wantErr      bool
		wantCurrency string
	}{
		{
			name:         "valid amount and currency should pass",
			amount:       decimal.NewFromInt(100),
			currency:     "USD",
			wantCurrency: "USD",
		},
		{
			name:         "lowercase currency is normalized to uppercase",
			amount:       decimal.NewFromFloat(19.99),
			currency:     "eur",
			wantCurrency: "EUR",
		},
		{
			name:         "zero amount should pass",
			amount:       decimal.Zero,
			currency:     "USD",
			wantCurrency: "USD",
		},
		{
			name:     "negative amount should fail",
			amount:   decimal.NewFromInt(-1),
			currency: "USD",
			wantErr:  true,
		},
		{
			name:     "empty currency should fail",
			amount:   decimal.NewFromInt(1),
			currency: "",
			wantErr:  true,
		},
		{
			name:     "two-letter currency should fail",
			amount:   decimal.NewFromInt(1),
			currency: "US",
			wantErr:  true,
		},
		{
			name:     "four-letter currency should fail",
			amount:   decimal.NewFromInt(1),
			currency: "USDT",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount.Equal(tt.amount))
			assert.Equal(t, tt.wantCurrency, m.Currency)
		})
	}
}

func TestMoney_AddZeroIsIdentity(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(42.50), "USD")
	require.NoError(t, err)

	sum, err := m.Add(Zero("USD"))
	require.NoError(t, err)
	assert.True(t, sum.Equal(m))
}

func TestMoney_Add(t *testing.T) {
	a, _ := NewMoney(decimal.NewFromInt(60), "USD")
	b, _ := NewMoney(decimal.NewFromInt(40), "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "USD", sum.Currency)

	// Operands are untouched.
	assert.True(t, a.Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(40)))
}

func TestMoney_AddCurrencyMismatch(t *testing.T) {
	usd, _ := NewMoney(decimal.NewFromInt(10), "USD")
	eur, _ := NewMoney(decimal.NewFromInt(10), "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = eur.Add(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_SubtractAllowsNegativeResult(t *testing.T) {
	a, _ := NewMoney(decimal.NewFromInt(50), "USD")
	b, _ := NewMoney(decimal.NewFromInt(80), "USD")

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.True(t, diff.Amount.Equal(decimal.NewFromInt(-30)))
}

func TestMoney_SubtractCurrencyMismatch(t *testing.T) {
	usd, _ := NewMoney(decimal.NewFromInt(10), "USD")
	gbp, _ := NewMoney(decimal.NewFromInt(5), "GBP")

	_, err := usd.Subtract(gbp)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_Equal(t *testing.T) {
	a, _ := NewMoney(decimal.NewFromInt(10), "USD")
	b, _ := NewMoney(decimal.NewFromFloat(10.00), "USD")
	c, _ := NewMoney(decimal.NewFromInt(10), "EUR")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestZero(t *testing.T) {
	z := Zero("usd")
	assert.True(t, z.Amount.IsZero())
	assert.Equal(t, "USD", z.Currency)
}
