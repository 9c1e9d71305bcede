package eligibility

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEMIZeroRateSplitsPrincipalExactly(t *testing.T) {
	emi := EMI(decimal.NewFromInt(120_000), decimal.Zero, 12)
	require.True(t, emi.Equal(decimal.NewFromInt(10_000)), "got %s", emi)

	// non-terminating division still reconstructs the principal
	emi = EMI(decimal.NewFromInt(100_000), decimal.Zero, 7)
	total := emi.Mul(decimal.NewFromInt(7))
	require.True(t, total.Sub(decimal.NewFromInt(100_000)).Abs().LessThan(decimal.RequireFromString("0.01")),
		"7 x %s = %s", emi, total)
}

func TestEMIStandardFormula(t *testing.T) {
	cases := []struct {
		name      string
		principal string
		rate      string
		tenure    int32
		want      string
	}{
		{"one lakh at 12 over a year", "100000", "12", 12, "8884.88"},
		{"two installments at 12", "10000", "12", 2, "5075.12"},
		{"single installment", "50000", "12", 1, "50500.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EMI(decimal.RequireFromString(tc.principal), decimal.RequireFromString(tc.rate), tc.tenure)
			require.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestEMIMonotonicInRate(t *testing.T) {
	principal := decimal.NewFromInt(500_000)
	prev := EMI(principal, decimal.Zero, 24)
	for _, rate := range []string{"1", "5", "8", "12", "16.1", "24", "36"} {
		emi := EMI(principal, decimal.RequireFromString(rate), 24)
		require.True(t, emi.GreaterThan(prev), "rate %s: %s should exceed %s", rate, emi, prev)
		prev = emi
	}
}

func TestEMIMonotonicInTenure(t *testing.T) {
	principal := decimal.NewFromInt(500_000)
	rate := decimal.NewFromInt(12)
	prev := EMI(principal, rate, 6)
	for _, tenure := range []int32{12, 24, 48, 120} {
		emi := EMI(principal, rate, tenure)
		require.True(t, emi.LessThan(prev), "tenure %d: %s should be below %s", tenure, emi, prev)
		prev = emi
	}
}

func TestEMIExceedsPrincipalShare(t *testing.T) {
	// with interest, each installment exceeds the bare principal split
	principal := decimal.NewFromInt(300_000)
	for _, tenure := range []int32{1, 12, 60, 240} {
		emi := EMI(principal, decimal.NewFromInt(9), tenure)
		bare := principal.Div(decimal.NewFromInt(int64(tenure)))
		require.True(t, emi.GreaterThan(bare), "tenure %d: %s vs %s", tenure, emi, bare)
	}
}

func TestEMIRoundsHalfToEven(t *testing.T) {
	// RoundBank ties go to the even digit
	require.Equal(t, "2.12", decimal.RequireFromString("2.125").RoundBank(2).StringFixed(2))
	require.Equal(t, "2.14", decimal.RequireFromString("2.135").RoundBank(2).StringFixed(2))

	got := EMI(decimal.NewFromInt(100_000), decimal.NewFromInt(12), 12)
	require.Equal(t, int32(2), got.Exponent()*-1)
}
