package eligibility

import "github.com/shopspring/decimal"

var monthsPerYearTimes100 = decimal.NewFromInt(1200)

// EMI computes the equal monthly installment for an amortizing loan.
// Zero-rate loans repay the bare principal split over the tenure, returned
// unrounded; otherwise the standard formula applies, rounded to 2 decimal
// places half-to-even. Callers must validate tenureMonths >= 1 first.
func EMI(principal, annualRatePercent decimal.Decimal, tenureMonths int32) decimal.Decimal {
	n := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		return principal.Div(n)
	}

	r := annualRatePercent.Div(monthsPerYearTimes100)
	factor := decimal.NewFromInt(1).Add(r).Pow(n)
	emi := principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	return emi.RoundBank(2)
}
