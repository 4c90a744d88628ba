package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percentage is a ratio bounded to [0, 100], stored rounded to two decimal
// places. Used for alert thresholds, interest rates, and splits.
type Percentage struct {
	Value decimal.Decimal
}

// NewPercentage validates and constructs a Percentage, rounding the value to
// two decimal places.
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percentage{}, validationErrorf("percentage must be between 0 and 100, got %s", value)
	}
	return Percentage{Value: value.Round(2)}, nil
}

// AsDecimal returns the percentage as a fraction (value / 100).
func (p Percentage) AsDecimal() decimal.Decimal {
	return p.Value.Div(hundred)
}

// ApplyTo scales a Money value by this percentage. The source money is
// already valid, so the result needs no re-validation.
func (p Percentage) ApplyTo(m Money) Money {
	return Money{Amount: m.Amount.Mul(p.AsDecimal()), Currency: m.Currency}
}
