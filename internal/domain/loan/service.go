package loan

import (
	"context"
	"time"

	customerdomain "github.com/creditdesk/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*customerdomain.Entity, error)
}

type ApprovalRepository interface {
	IsLoanApproved(ctx context.Context, loanID int64) (bool, *decimal.Decimal, error)
}

type View struct {
	Loan           Entity
	Customer       customerdomain.Entity
	Approved       bool
	EffectiveRate  decimal.Decimal
	RepaymentsLeft int32
}

type CustomerLoanItem struct {
	Loan           Entity
	Approved       bool
	RepaymentsLeft int32
}

type Service struct {
	loanRepo     Repository
	customerRepo CustomerRepository
	approvalRepo ApprovalRepository
	now          func() time.Time
}

func NewService(loanRepo Repository, customerRepo CustomerRepository, approvalRepo ApprovalRepository) *Service {
	return &Service{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		approvalRepo: approvalRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetLoan(ctx context.Context, loanID int64) (*View, error) {
	l, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	cust, err := s.customerRepo.GetByID(ctx, l.CustomerID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Loan:           *l,
		Customer:       *cust,
		EffectiveRate:  l.InterestRate,
		RepaymentsLeft: l.RepaymentsLeft(s.now()),
	}
	approved, approvedRate, err := s.approvalRepo.IsLoanApproved(ctx, loanID)
	if err == nil && approved {
		view.Approved = true
		if approvedRate != nil {
			view.EffectiveRate = *approvedRate
		}
	}
	return view, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]CustomerLoanItem, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]CustomerLoanItem, 0, len(loans))
	for _, l := range loans {
		approved, _, err := s.approvalRepo.IsLoanApproved(ctx, l.ID)
		if err != nil {
			approved = false
		}
		items = append(items, CustomerLoanItem{
			Loan:           l,
			Approved:       approved,
			RepaymentsLeft: l.RepaymentsLeft(now),
		})
	}
	return items, nil
}
