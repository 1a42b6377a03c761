package generic

import "github.com/shopspring/decimal"

// =============================================================================
// ROUNDING POLICY - one rule per metric class
// =============================================================================
//
//   Count-based rates  (completion, status share, resolution)  -> whole percent
//   Amount-based rates (utilization, disbursement, fund usage)  -> one decimal
//   Score averages                                             -> whole number
//
// All rounding is half away from zero. A zero denominator yields zero.

// Precision is the number of decimal places kept after rounding.
type Precision int32

const (
	WholeNumber  Precision = 0
	OneDecimal   Precision = 1
	CountPlaces            = WholeNumber
	AmountPlaces           = OneDecimal
	ScorePlaces            = WholeNumber
)

// Rate returns part/whole*100 rounded to p. Zero whole gives zero.
func Rate(part, whole decimal.Decimal, p Precision) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(int32(p))
}

// CountRate is the percentage of part over whole for counts.
func CountRate(part, whole int) decimal.Decimal {
	return Rate(decimal.NewFromInt(int64(part)), decimal.NewFromInt(int64(whole)), CountPlaces)
}

// AmountRate is the percentage of part over whole for money.
func AmountRate(part, whole decimal.Decimal) decimal.Decimal {
	return Rate(part, whole, AmountPlaces)
}

// Average returns sum/n rounded to p, or zero when n is zero.
func Average(sum decimal.Decimal, n int, p Precision) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(int32(p))
}
