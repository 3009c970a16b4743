package rebalance

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a USD monetary value with exact decimal arithmetic.
// The brokerage reports every amount as a numeric string, so the canonical
// constructor is ParseMoney.
type Money struct {
	value decimal.Decimal
}

// M builds a Money from a float. Intended for literals in tests and defaults.
func M(value float64) Money {
	return Money{value: decimal.NewFromFloat(value)}
}

// ParseMoney parses a numeric-as-string amount as reported by the brokerage.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("cannot parse amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value)} }

// MulDec multiplies the amount by a unitless quantity (e.g. a share count).
func (m Money) MulDec(q decimal.Decimal) Money { return Money{value: m.value.Mul(q)} }

// DivInt divides the amount evenly by n. n must be positive.
func (m Money) DivInt(n int) Money { return Money{value: m.value.Div(decimal.NewFromInt(int64(n)))} }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool {
	return m.value.Equal(n.value)
}

// AsFloat converts to float64 for percentage arithmetic and rendering.
// Money arithmetic itself stays exact; only ratios leave decimal space.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// String formats the amount as USD, e.g. "$1,234.57".
func (m Money) String() string {
	cur := money.GetCurrency(money.USD)
	dec := m.value.Shift(int32(cur.Fraction))
	return money.New(dec.Round(0).IntPart(), money.USD).Display()
}

// Format renders the amount as a plain dollar string with the given number
// of fraction digits, e.g. Format(3) -> "$12.500". The report and the CSV
// export disagree on precision, hence the knob.
func (m Money) Format(digits int) string {
	return fmt.Sprintf("$%.*f", digits, m.AsFloat())
}
