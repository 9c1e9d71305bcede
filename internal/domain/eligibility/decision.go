package eligibility

import (
	"time"

	creditscoredomain "github.com/creditdesk/backend/internal/domain/creditscore"
	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// Rejection reasons. A rejection is a normal decision outcome, not an error.
const (
	ReasonHighEMIRatio   = "HIGH_EMI_RATIO"
	ReasonOverLimit      = "OVER_APPROVED_LIMIT"
	ReasonLowCreditScore = "LOW_CREDIT_SCORE"
)

const (
	msgApproved     = "Loan approved"
	msgHighEMIRatio = "EMI exceeds 50% of monthly income"
	msgOverLimit    = "Exceeds approved credit limit"
	msgLowScore     = "Credit score too low"
)

var (
	half        = decimal.RequireFromString("0.5")
	tierMidRate = decimal.RequireFromString("12.0")
	tierMidMin  = decimal.RequireFromString("12.1")
	tierLowRate = decimal.RequireFromString("16.0")
	tierLowMin  = decimal.RequireFromString("16.1")
)

type Decision struct {
	Approved      bool
	CreditScore   int32
	RequestedRate decimal.Decimal
	// CorrectedRate is set only when a score tier forces a minimum rate.
	CorrectedRate *decimal.Decimal
	EMI           decimal.Decimal
	Reason        string
	Message       string
}

type QuoteInput struct {
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	LoanHistory   []loandomain.Entity
	Amount        decimal.Decimal
	AnnualRate    decimal.Decimal
	TenureMonths  int32
	Now           time.Time
}

// CheckEligibility is the quote path: score with the over-limit override,
// then the affordability gate over all active EMIs, then the score tiers
// with rate correction. It never consults the approved limit against the
// requested amount; EvaluateBooking does that instead. The two orderings
// are deliberately distinct and must not be unified.
func CheckEligibility(in QuoteInput) Decision {
	b := creditscoredomain.Calculate(in.LoanHistory, in.Now)
	score := creditscoredomain.ApplyOverLimit(
		b.Score,
		loandomain.ActivePrincipal(in.LoanHistory, in.Now),
		in.ApprovedLimit,
	)

	emi := EMI(in.Amount, in.AnnualRate, in.TenureMonths)

	d := Decision{
		CreditScore:   score,
		RequestedRate: in.AnnualRate,
		EMI:           emi,
	}

	activeEMIs := loandomain.ActiveEMIs(in.LoanHistory, in.Now)
	if activeEMIs.Add(emi).GreaterThan(half.Mul(in.MonthlySalary)) {
		d.Reason = ReasonHighEMIRatio
		d.Message = msgHighEMIRatio
		return d
	}

	switch {
	case score > 50:
		d.Approved = true
	case score > 30:
		d.Approved = true
		if in.AnnualRate.LessThanOrEqual(tierMidRate) {
			corrected := tierMidMin
			d.CorrectedRate = &corrected
		}
	case score > 10:
		d.Approved = true
		if in.AnnualRate.LessThanOrEqual(tierLowRate) {
			corrected := tierLowMin
			d.CorrectedRate = &corrected
		}
	default:
		d.Reason = ReasonLowCreditScore
		d.Message = msgLowScore
		return d
	}

	d.Message = msgApproved
	return d
}

type BookingInput struct {
	MonthlySalary   decimal.Decimal
	ApprovedLimit   decimal.Decimal
	ActivePrincipal decimal.Decimal
	// CachedScore is the current cached score; callers pass
	// creditscore.DefaultScore when no cached record exists.
	CachedScore  int32
	Amount       decimal.Decimal
	AnnualRate   decimal.Decimal
	TenureMonths int32
}

// EvaluateBooking is the create-loan path: affordability on the new EMI
// alone, then the approved-limit check, then the minimum-score threshold.
// No rate correction applies here.
func EvaluateBooking(in BookingInput) Decision {
	emi := EMI(in.Amount, in.AnnualRate, in.TenureMonths)

	d := Decision{
		CreditScore:   in.CachedScore,
		RequestedRate: in.AnnualRate,
		EMI:           emi,
	}

	if emi.GreaterThan(half.Mul(in.MonthlySalary)) {
		d.Reason = ReasonHighEMIRatio
		d.Message = msgHighEMIRatio
		return d
	}
	if in.ActivePrincipal.Add(in.Amount).GreaterThan(in.ApprovedLimit) {
		d.Reason = ReasonOverLimit
		d.Message = msgOverLimit
		return d
	}
	if in.CachedScore < 50 {
		d.Reason = ReasonLowCreditScore
		d.Message = msgLowScore
		return d
	}

	d.Approved = true
	d.Message = msgApproved
	return d
}
