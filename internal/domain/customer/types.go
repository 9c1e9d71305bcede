package customer

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Entity struct {
	ID            int64
	FirstName     string
	LastName      string
	Age           int32
	PhoneNumber   int64
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	CurrentDebt   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Entity) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type CreateInput struct {
	FirstName     string
	LastName      string
	Age           int32
	PhoneNumber   int64
	MonthlySalary decimal.Decimal
	ApprovedLimit decimal.Decimal
	CurrentDebt   decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Entity, error)
	GetByID(ctx context.Context, id int64) (*Entity, error)
	GetByPhone(ctx context.Context, phoneNumber int64) (*Entity, error)
	ListIDs(ctx context.Context) ([]int64, error)
	RecomputeCurrentDebt(ctx context.Context, id int64) error
}
