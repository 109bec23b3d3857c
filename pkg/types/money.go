package types

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount stored as numeric in the database and
// rendered as a bare JSON number. Sums over Money never accumulate float
// error.
type Money struct {
	decimal.Decimal
}

// NewMoney builds a Money from an int64 amount of whole currency units.
func NewMoney(units int64) Money {
	return Money{decimal.NewFromInt(units)}
}

// MoneyFromDecimal wraps an existing decimal.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// MarshalJSON renders the amount unquoted so clients read a plain number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numeric input.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

// Value marshals for the SQL driver.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Value()
}

// Scan decodes numeric/text/float column values.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.Decimal = decimal.Zero
		return nil
	}
	if err := m.Decimal.Scan(value); err != nil {
		return fmt.Errorf("scanning money: %w", err)
	}
	return nil
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// RoundedUnits divides the amount by count and rounds to the nearest whole
// unit. Zero count yields zero, never a division fault.
func (m Money) RoundedUnits(count int64) int64 {
	if count == 0 {
		return 0
	}
	return m.Decimal.Div(decimal.NewFromInt(count)).Round(0).IntPart()
}
