// Package money implements fixed-point currency arithmetic in céntimos
// (1/100 PEN) and the IGV computation used by sale finalization.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultTaxRate is the flat IGV consumption rate applied to every subtotal.
const DefaultTaxRate = 0.18

// Round2 rounds a decimal currency amount to céntimos using
// round-half-away-from-zero.
func Round2(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ComputeTax returns the tax for a subtotal in céntimos. The product is
// taken at full precision and rounded once, half away from zero.
func ComputeTax(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate))
}

// ComputeTotal returns subtotal + tax. Subtotal is already exact in
// céntimos, so no further rounding applies.
func ComputeTotal(subtotal, tax int64) int64 {
	return subtotal + tax
}

// Format renders céntimos with the fixed "S/ " prefix and exactly two
// decimals. Receipt output parses on this, keep it stable.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("S/ %s%d.%02d", sign, cents/100, cents%100)
}

// ParseAmount converts a decimal string like "2.50" into céntimos.
// At most two fraction digits are accepted.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: more than two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return cents, nil
}
