package application

import (
	"context"
	"time"

	creditscoredomain "github.com/creditdesk/backend/internal/domain/creditscore"
	customerdomain "github.com/creditdesk/backend/internal/domain/customer"
	eligibilitydomain "github.com/creditdesk/backend/internal/domain/eligibility"
	loandomain "github.com/creditdesk/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

const loanDaysPerTenureMonth = 30

type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*customerdomain.Entity, error)
	RecomputeCurrentDebt(ctx context.Context, id int64) error
}

type LoanRepository interface {
	Create(ctx context.Context, in loandomain.CreateInput) (*loandomain.Entity, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]loandomain.Entity, error)
}

type ScoreRepository interface {
	GetCurrent(ctx context.Context, customerID int64) (*creditscoredomain.Record, error)
}

// Notifier publishes decision events; the ws hub implements it.
type Notifier interface {
	ApplicationDecided(customerID int64, applicationID int64, approved bool, reason string)
}

type EligibilityRequest struct {
	CustomerID   int64
	Amount       decimal.Decimal
	AnnualRate   decimal.Decimal
	TenureMonths int32
}

type CreateLoanResult struct {
	Application *Entity
	LoanID      *int64
	Decision    eligibilitydomain.Decision
}

type Service struct {
	customerRepo CustomerRepository
	loanRepo     LoanRepository
	scoreRepo    ScoreRepository
	appRepo      Repository
	notifier     Notifier
	now          func() time.Time
}

func NewService(customerRepo CustomerRepository, loanRepo LoanRepository, scoreRepo ScoreRepository, appRepo Repository, notifier Notifier) *Service {
	return &Service{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		scoreRepo:    scoreRepo,
		appRepo:      appRepo,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CheckEligibility is the read-only quote path. It recomputes the score
// from history and persists nothing.
func (s *Service) CheckEligibility(ctx context.Context, req EligibilityRequest) (*eligibilitydomain.Decision, error) {
	cust, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	d := eligibilitydomain.CheckEligibility(eligibilitydomain.QuoteInput{
		MonthlySalary: cust.MonthlySalary,
		ApprovedLimit: cust.ApprovedLimit,
		LoanHistory:   loans,
		Amount:        req.Amount,
		AnnualRate:    req.AnnualRate,
		TenureMonths:  req.TenureMonths,
		Now:           s.now(),
	})
	return &d, nil
}

// CreateLoan is the booking path. It evaluates against the cached current
// score, records the application in its terminal status, and on approval
// books the loan and recomputes the customer's current debt.
func (s *Service) CreateLoan(ctx context.Context, req EligibilityRequest) (*CreateLoanResult, error) {
	cust, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	score := int32(creditscoredomain.DefaultScore)
	if rec, err := s.scoreRepo.GetCurrent(ctx, req.CustomerID); err == nil && rec != nil {
		score = rec.Score
	}

	now := s.now()
	decision := eligibilitydomain.EvaluateBooking(eligibilitydomain.BookingInput{
		MonthlySalary:   cust.MonthlySalary,
		ApprovedLimit:   cust.ApprovedLimit,
		ActivePrincipal: loandomain.ActivePrincipal(loans, now),
		CachedScore:     score,
		Amount:          req.Amount,
		AnnualRate:      req.AnnualRate,
		TenureMonths:    req.TenureMonths,
	})

	app, err := s.record(ctx, cust, req, decision)
	if err != nil {
		return nil, err
	}

	result := &CreateLoanResult{Application: app, LoanID: app.LoanID, Decision: decision}
	if s.notifier != nil {
		s.notifier.ApplicationDecided(cust.ID, app.ID, decision.Approved, decision.Reason)
	}
	return result, nil
}

// record persists the decision. The application is created directly in its
// terminal status; no further transition is possible.
func (s *Service) record(ctx context.Context, cust *customerdomain.Entity, req EligibilityRequest, decision eligibilitydomain.Decision) (*Entity, error) {
	status := StatusRejected
	if decision.Approved {
		status = StatusApproved
	}

	app, err := s.appRepo.Create(ctx, CreateInput{
		CustomerID:               cust.ID,
		RequestedAmount:          req.Amount,
		RequestedRate:            req.AnnualRate,
		RequestedTenure:          req.TenureMonths,
		Status:                   status,
		MonthlyInstallment:       decision.EMI,
		RejectionReason:          decision.Reason,
		RejectionMessage:         rejectionMessage(decision),
		CreditScoreAtApplication: decision.CreditScore,
	})
	if err != nil {
		return nil, err
	}

	if !decision.Approved {
		return app, nil
	}

	startDate := s.now().Truncate(24 * time.Hour)
	endDate := startDate.AddDate(0, 0, loanDaysPerTenureMonth*int(req.TenureMonths))
	booked, err := s.loanRepo.Create(ctx, loandomain.CreateInput{
		CustomerID:       cust.ID,
		LoanAmount:       req.Amount,
		TenureMonths:     req.TenureMonths,
		InterestRate:     req.AnnualRate,
		MonthlyRepayment: decision.EMI,
		StartDate:        startDate,
		EndDate:          endDate,
	})
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.LinkLoan(ctx, app.ID, booked.ID, req.Amount, req.AnnualRate); err != nil {
		return nil, err
	}
	if err := s.customerRepo.RecomputeCurrentDebt(ctx, cust.ID); err != nil {
		return nil, err
	}

	app.LoanID = &booked.ID
	approvedAmount := req.Amount
	approvedRate := req.AnnualRate
	app.ApprovedAmount = &approvedAmount
	app.ApprovedRate = &approvedRate
	return app, nil
}

func rejectionMessage(d eligibilitydomain.Decision) string {
	if d.Approved {
		return ""
	}
	return d.Message
}
