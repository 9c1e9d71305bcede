package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Entity is a loan application. It is written once with its terminal status
// and never transitions again.
type Entity struct {
	ID                       int64
	CustomerID               int64
	LoanID                   *int64
	RequestedAmount          decimal.Decimal
	RequestedRate            decimal.Decimal
	RequestedTenure          int32
	Status                   string
	ApprovedAmount           *decimal.Decimal
	ApprovedRate             *decimal.Decimal
	CorrectedRate            *decimal.Decimal
	MonthlyInstallment       decimal.Decimal
	RejectionReason          string
	RejectionMessage         string
	CreditScoreAtApplication int32
	AppliedAt                time.Time
	ProcessedAt              *time.Time
}

type CreateInput struct {
	CustomerID               int64
	RequestedAmount          decimal.Decimal
	RequestedRate            decimal.Decimal
	RequestedTenure          int32
	Status                   string
	MonthlyInstallment       decimal.Decimal
	RejectionReason          string
	RejectionMessage         string
	CreditScoreAtApplication int32
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Entity, error)
	LinkLoan(ctx context.Context, applicationID, loanID int64, approvedAmount, approvedRate decimal.Decimal) error
	GetByID(ctx context.Context, id int64) (*Entity, error)
	IsLoanApproved(ctx context.Context, loanID int64) (bool, *decimal.Decimal, error)
}
