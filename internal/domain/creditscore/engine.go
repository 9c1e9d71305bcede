package creditscore

import (
	"time"

	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// DefaultScore is the neutral score used when a customer has no loan
// history and when no cached score exists yet.
const DefaultScore = 50

const (
	maxOnTimePoints      = 30
	maxLoanCountPoints   = 20
	maxCurrentYearPoints = 20
	maxVolumePoints      = 20
	pointsPerLoan        = 5
	volumeUnit           = 100_000 // one point per lakh of historical volume
	maxScore             = 100
)

type Breakdown struct {
	Score            int32
	OnTimeScore      int32
	LoanCountScore   int32
	CurrentYearScore int32
	VolumeScore      int32
}

// Calculate produces the 0-100 heuristic score from a customer's full loan
// history. An empty history short-circuits to the neutral score.
func Calculate(loans []loandomain.Entity, now time.Time) Breakdown {
	if len(loans) == 0 {
		return Breakdown{Score: DefaultScore}
	}

	onTime := 0
	currentYear := now.Year()
	thisYear := 0
	totalVolume := 0.0
	for _, l := range loans {
		if l.EMIsPaidOnTime > 0 {
			onTime++
		}
		if l.StartDate.Year() == currentYear {
			thisYear++
		}
		// heuristic volume, not a financial total; float summation is fine
		totalVolume += l.LoanAmount.InexactFloat64()
	}

	b := Breakdown{}
	b.OnTimeScore = int32(float64(onTime) / float64(len(loans)) * maxOnTimePoints)
	b.LoanCountScore = capPoints(int32(len(loans) * pointsPerLoan), maxLoanCountPoints)
	b.CurrentYearScore = capPoints(int32(thisYear*pointsPerLoan), maxCurrentYearPoints)
	b.VolumeScore = capPoints(int32(totalVolume/volumeUnit), maxVolumePoints)

	b.Score = b.OnTimeScore + b.LoanCountScore + b.CurrentYearScore + b.VolumeScore
	if b.Score > maxScore {
		b.Score = maxScore
	}
	return b
}

// ApplyOverLimit forces the score to zero for a customer whose active loan
// principal already exceeds the approved limit.
func ApplyOverLimit(score int32, activePrincipal, approvedLimit decimal.Decimal) int32 {
	if activePrincipal.GreaterThan(approvedLimit) {
		return 0
	}
	return score
}

func capPoints(points, limit int32) int32 {
	if points > limit {
		return limit
	}
	return points
}
