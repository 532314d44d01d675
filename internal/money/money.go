// Package money converts between decimal amounts and the integer minor units
// (cents) stored in the database.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegative is returned for amounts below zero
	ErrNegative = errors.New("amount must not be negative")

	// ErrPrecision is returned for amounts with more than two decimal places
	ErrPrecision = errors.New("amount has more than two decimal places")
)

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string such as "12.50" into cents
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into cents
func FromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, ErrPrecision
	}
	return cents.IntPart(), nil
}

// ToDecimal converts cents back into a decimal amount
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents with exactly two decimal places
func Format(cents int64) string {
	return ToDecimal(cents).StringFixed(2)
}
