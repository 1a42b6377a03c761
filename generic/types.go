/*
Package generic provides the domain-agnostic primitives of the transparency engine.

PURPOSE:
  This package contains the small building blocks every derived view is made
  of. Whether summing project budgets, computing a loan's disbursement rate,
  or grouping flags by county, the same helpers handle money arithmetic,
  rounding, optional values, lookups and grouping.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal amounts (always KES in this system)
  - Currency: the ISO code carried next to money in API responses
  - SumBy: reduce a sequence to a money total

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Totality: Every helper is defined for every input (no panics, no NaN)
  3. Purity: Nothing here holds state between calls

SEE ALSO:
  - rate.go: Percentages and the rounding policy
  - lookup.go: Find/Where over ordered sequences
  - group.go: Group-by with an explicit "Unknown" bucket
  - optional.go: Optional[T] for absent fields
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

// Currency is an ISO 4217 code.
type Currency string

// CurrencyKES is the only currency the dataset uses.
const CurrencyKES Currency = "KES"

var hundred = decimal.NewFromInt(100)

// SumBy adds up value(item) over items. An empty sequence sums to zero.
func SumBy[T any](items []T, value func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(value(item))
	}
	return total
}

// CountBy counts the items matching pred.
func CountBy[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}
