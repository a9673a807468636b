package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits every monetary amount is rounded to.
const Scale int32 = 2

// DivRound computes num/den rounded to cents, half away from zero. The
// remainder is compared exactly so no precision is lost before rounding.
// den must be non-zero.
func DivRound(num, den decimal.Decimal) decimal.Decimal {
	return num.DivRound(den, Scale)
}

// PowInt returns base**n for n >= 0 using repeated squaring. The result is
// exact: decimal multiplication never rounds.
func PowInt(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// HasCentPrecision reports whether d has no more than Scale fractional digits.
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// Format renders d rounded to cents with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
