package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(1_500_000), "VND")
	require.NoError(t, err)
	assert.Equal(t, "1500000 VND", m.String())

	// Empty currency falls back to the default
	m, err = NewMoney(decimal.NewFromInt(10), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, m.Currency)

	_, err = NewMoney(decimal.NewFromInt(10), "DONG")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a, _ := NewMoney(decimal.NewFromInt(300), "USD")
	b, _ := NewMoney(decimal.NewFromInt(120), "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(420)))
	assert.Equal(t, "USD", sum.Currency)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount.Equal(decimal.NewFromInt(180)))

	other, _ := NewMoney(decimal.NewFromInt(1), "EUR")
	_, err = a.Add(other)
	assert.Error(t, err)
	_, err = a.Sub(other)
	assert.Error(t, err)
}

func TestMoney_Predicates(t *testing.T) {
	zero := Zero("")
	assert.Equal(t, DefaultCurrency, zero.Currency)
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())

	m, _ := NewMoneyFromFloat(-12.5, "USD")
	assert.True(t, m.IsNegative())

	a, _ := NewMoney(decimal.NewFromInt(5), "USD")
	b, _ := NewMoney(decimal.NewFromInt(5), "USD")
	assert.True(t, a.GreaterThanOrEqual(b))
	// Different currencies never compare as greater-or-equal
	c, _ := NewMoney(decimal.NewFromInt(1), "EUR")
	assert.False(t, a.GreaterThanOrEqual(c))
}
