package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Entity struct {
	ID               int64
	CustomerID       int64
	LoanAmount       decimal.Decimal
	TenureMonths     int32
	InterestRate     decimal.Decimal
	MonthlyRepayment decimal.Decimal
	EMIsPaidOnTime   int32
	StartDate        time.Time
	EndDate          time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RepaymentsLeft counts the EMIs still due as of now. A loan past its end
// date has none; a loan that has not started yet still owes its full tenure.
func (e Entity) RepaymentsLeft(now time.Time) int32 {
	if !now.Before(e.EndDate) {
		return 0
	}
	monthsPassed := int32((now.Year()-e.StartDate.Year())*12 + int(now.Month()) - int(e.StartDate.Month()))
	if monthsPassed < 0 {
		return e.TenureMonths
	}
	if left := e.TenureMonths - monthsPassed; left > 0 {
		return left
	}
	return 0
}

func (e Entity) IsActive(now time.Time) bool {
	return e.RepaymentsLeft(now) > 0
}

type CreateInput struct {
	// ID is set only by bulk ingestion, which carries explicit loan ids.
	// Zero means the store assigns one.
	ID               int64
	CustomerID       int64
	LoanAmount       decimal.Decimal
	TenureMonths     int32
	InterestRate     decimal.Decimal
	MonthlyRepayment decimal.Decimal
	EMIsPaidOnTime   int32
	StartDate        time.Time
	EndDate          time.Time
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Entity, error)
	GetByID(ctx context.Context, id int64) (*Entity, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Entity, error)
}

// ActivePrincipal sums the amounts of loans still being repaid.
func ActivePrincipal(loans []Entity, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		if l.IsActive(now) {
			total = total.Add(l.LoanAmount)
		}
	}
	return total
}

// ActiveEMIs sums the monthly repayments of loans still being repaid.
func ActiveEMIs(loans []Entity, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range loans {
		if l.IsActive(now) {
			total = total.Add(l.MonthlyRepayment)
		}
	}
	return total
}
