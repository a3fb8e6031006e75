// Package money parses and formats rupee amounts shown on the storefront.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnparsable = errors.New("price has no numeric value")

// Parse strips every character that is not a digit or '.' and parses the remainder,
// so "₹1,299" and "1299" are equivalent. Dots ahead of the first digit belong to a
// currency prefix such as "Rs." and are dropped.
func Parse(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	seenDigit := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.' && seenDigit:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || strings.Trim(cleaned, ".") == "" {
		return decimal.Zero, ErrUnparsable
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrUnparsable
	}
	return value, nil
}

// Format renders an amount with exactly two decimal places.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Display renders an amount the way the storefront labels prices.
func Display(amount decimal.Decimal) string {
	return "₹" + Format(amount)
}
