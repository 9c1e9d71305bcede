package creditscore

import (
	"math/rand"
	"testing"
	"time"

	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var scoreNow = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

func historyLoan(amount int64, onTime int32, startYear int) loandomain.Entity {
	return loandomain.Entity{
		LoanAmount:     decimal.NewFromInt(amount),
		TenureMonths:   12,
		EMIsPaidOnTime: onTime,
		StartDate:      time.Date(startYear, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(startYear+1, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculateEmptyHistoryIsNeutral(t *testing.T) {
	b := Calculate(nil, scoreNow)
	require.Equal(t, int32(DefaultScore), b.Score)
	require.Zero(t, b.OnTimeScore)
	require.Zero(t, b.LoanCountScore)
	require.Zero(t, b.CurrentYearScore)
	require.Zero(t, b.VolumeScore)
}

func TestCalculateComponentBreakdown(t *testing.T) {
	loans := []loandomain.Entity{
		historyLoan(300_000, 12, 2023),
		historyLoan(300_000, 12, 2024),
		historyLoan(300_000, 0, 2026),
	}

	b := Calculate(loans, scoreNow)

	// 2 of 3 on time
	require.Equal(t, int32(20), b.OnTimeScore)
	require.Equal(t, int32(15), b.LoanCountScore)
	require.Equal(t, int32(5), b.CurrentYearScore)
	// 900,000 of volume is 9 points
	require.Equal(t, int32(9), b.VolumeScore)
	require.Equal(t, int32(49), b.Score)
}

func TestCalculateCapsEachComponent(t *testing.T) {
	loans := make([]loandomain.Entity, 0, 12)
	for i := 0; i < 12; i++ {
		loans = append(loans, historyLoan(1_000_000, 12, 2026))
	}

	b := Calculate(loans, scoreNow)

	require.Equal(t, int32(30), b.OnTimeScore)
	require.Equal(t, int32(20), b.LoanCountScore)
	require.Equal(t, int32(20), b.CurrentYearScore)
	require.Equal(t, int32(20), b.VolumeScore)
	require.Equal(t, int32(90), b.Score)
}

func TestCalculateNeverLeavesRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := rng.Intn(30)
		loans := make([]loandomain.Entity, 0, n)
		for j := 0; j < n; j++ {
			loans = append(loans, historyLoan(
				rng.Int63n(5_000_000)+1,
				int32(rng.Intn(13)),
				2015+rng.Intn(12),
			))
		}
		b := Calculate(loans, scoreNow)
		require.GreaterOrEqual(t, b.Score, int32(0))
		require.LessOrEqual(t, b.Score, int32(100))
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	loans := []loandomain.Entity{
		historyLoan(250_000, 6, 2022),
		historyLoan(750_000, 0, 2026),
	}
	first := Calculate(loans, scoreNow)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Calculate(loans, scoreNow))
	}
}

func TestCalculateOnTimeRatioTruncates(t *testing.T) {
	// 2 of 7 on time: 0.2857... * 30 = 8.57..., truncated to 8 points
	loans := make([]loandomain.Entity, 0, 7)
	for i := 0; i < 7; i++ {
		onTime := int32(0)
		if i < 2 {
			onTime = 12
		}
		loans = append(loans, historyLoan(10_000, onTime, 2015+i))
	}
	b := Calculate(loans, scoreNow)
	require.Equal(t, int32(8), b.OnTimeScore)
}

func TestApplyOverLimit(t *testing.T) {
	limit := decimal.NewFromInt(500_000)

	require.Equal(t, int32(80), ApplyOverLimit(80, decimal.NewFromInt(500_000), limit))
	require.Equal(t, int32(0), ApplyOverLimit(80, decimal.RequireFromString("500000.01"), limit))
	require.Equal(t, int32(0), ApplyOverLimit(100, decimal.NewFromInt(600_000), limit))
}
