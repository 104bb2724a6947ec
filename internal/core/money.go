// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and formatting them in Zambian Kwacha for display.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code shown next to every formatted amount.
const Currency = "ZMW"

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a decimal string into a non-negative amount.
//
// Surrounding whitespace is ignored. Exponent notation ("1e3") and a
// leading plus are rejected even though the decimal parser accepts them.
// Negative values are rejected too.
//
// Examples:
//
//	ParseAmount("100")    -> 100, nil
//	ParseAmount("12.50")  -> 12.5, nil
//	ParseAmount("-1")     -> 0, ErrNegativeAmount
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
//	ParseAmount("1e3")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatAmount renders an amount with thousands separators and two
// decimals, e.g. "ZMW 1,234.50".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := Currency + " " + b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
