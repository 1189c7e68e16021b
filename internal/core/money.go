// Package core provides money parsing and handling utilities.
//
// Amounts are stored as SQLite REAL values, so the domain carries float64.
// Arithmetic that feeds a displayed figure goes through decimal.Decimal to keep
// sums like 0.1 + 0.2 from drifting.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string into an amount.
//
// Both dot (12.34) and comma (12,34) separators are accepted and the value is
// rounded half-up to cents. Negative values are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	return d.Round(2).InexactFloat64(), nil
}

// SplitInstallments returns the per-installment amount rounded to cents.
func SplitInstallments(amount float64, installments int64) float64 {
	if installments <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(installments)).
		Round(2).
		InexactFloat64()
}

// sumAmounts adds amounts exactly and returns the decimal total.
func sumAmounts(amounts ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}
