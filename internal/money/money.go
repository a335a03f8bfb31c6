// Package money provides fixed two-decimal amount arithmetic for the ledger.
// All balances and transaction amounts are kept exact with shopspring/decimal
// and rounded to the cent using round-half-away-from-zero.
package money

import "github.com/shopspring/decimal"

// Round2 rounds an amount to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Parse parses a decimal amount from its string form.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Zero is the zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Format renders an amount with exactly two decimal places, e.g. "12.50".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
