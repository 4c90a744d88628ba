package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount/currency pair. Every operation returns a new
// value; arithmetic between two Money values is guarded by currency equality.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney validates and constructs a Money value. The currency code is
// normalized to uppercase.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, validationErrorf("money amount cannot be negative")
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, validationErrorf("currency cannot be empty")
	}
	if len(currency) != 3 {
		return Money{}, validationErrorf("currency must be a 3-letter code, got %q", currency)
	}

	return Money{Amount: amount, Currency: currency}, nil
}

// Zero returns a zero amount in the given currency without validation.
// Used as a safe default for freshly created aggregates.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: strings.ToUpper(currency)}
}

// Add returns m + other, or ErrCurrencyMismatch if the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Subtract returns m - other. The result is not floored at zero: budgets and
// goals rely on negative amounts to signal overage and over-withdrawal.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Equal is structural equality on amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
