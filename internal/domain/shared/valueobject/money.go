package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with currency
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// DefaultCurrency is the currency used when none is specified
const DefaultCurrency = "VND"

// NewMoney creates a new Money value object
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency code: %s", currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewMoneyFromFloat creates Money from a float value
func NewMoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// Zero returns a zero amount in the given currency
func Zero(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add adds two money values of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub subtracts another money value of the same currency
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// IsPositive reports whether the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// IsNegative reports whether the amount is less than zero
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// GreaterThanOrEqual compares two amounts of the same currency
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Currency == other.Currency && m.Amount.GreaterThanOrEqual(other.Amount)
}

// String returns a human readable representation
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}
