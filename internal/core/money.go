// Package core provides the domain types and money handling utilities.
//
// Amounts are kept as integer cents. Parsing and formatting go through
// shopspring/decimal so no value ever passes through a binary float.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxFractionDigits = 2
	maxIntegerDigits  = 8
)

type Money struct {
	Cents int64
}

// ParseAmount converts user input such as "12.34" or "12,34" to Money.
//
// The value may be zero, carries at most two fraction digits and at most
// eight integer digits. Signs and exponents are rejected, so the result is
// never negative; the transaction type carries the direction.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.Replace(s, ",", ".", 1)
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return Money{}, ErrInvalidAmount
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Money{}, ErrInvalidAmount
	}
	if len(fracPart) > maxFractionDigits {
		return Money{}, ErrInvalidAmount
	}
	if len(strings.TrimLeft(intPart, "0")) > maxIntegerDigits {
		return Money{}, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart != "" {
		intPart += "." + fracPart
	}
	d, err := decimal.NewFromString(intPart)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MoneyFromDecimal rounds d half-up to cents.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two fraction digits, e.g. "12.30".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float64 is for chart payloads only. Never use it for arithmetic.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Validate rejects negative amounts. Zero is allowed.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
