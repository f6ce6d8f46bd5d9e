// Package core defines the domain model for the finance tracker:
// transactions, recurring schedules, budget plans and savings goals,
// together with money and date handling shared by every other package.
package core

import (
	"math"
	"strconv"
	"strings"
)

// Money is an amount in integer cents. Calculations stay in cents to
// avoid floating-point precision issues; Dollars is for display only.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Dollars returns the dollar value as a float64 for display purposes.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Percent returns the given percentage of m, rounded half-up on cents.
func (m Money) Percent(pct float64) Money {
	return Money{Cents: int64(math.Floor(float64(m.Cents)*pct/100 + 0.5))}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Cents, 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

// ParseMoney parses a user-entered decimal amount into Money. It
// accepts dot (12.34) and comma (12,34) separators and rounds half-up
// on the third decimal place. Signed input is rejected; zero is a
// valid amount. Anything non-numeric returns ErrInvalidAmount.
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return Money{}, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return Money{}, ErrInvalidAmount
		}
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100 {
		return Money{}, ErrInvalidAmount
	}
	cents := units * 100
	if len(frac) > 0 {
		cents += int64(frac[0]-'0') * 10
	}
	if len(frac) > 1 {
		cents += int64(frac[1] - '0')
	}
	if len(frac) > 2 && frac[2] >= '5' {
		cents++
	}
	return Money{Cents: cents}, nil
}
