package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	customerdomain "github.com/creditdesk/backend/internal/domain/customer"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type mockLoanRepo struct {
	byID map[int64]*Entity
}

func (m *mockLoanRepo) Create(_ context.Context, _ CreateInput) (*Entity, error) {
	return nil, errors.New("not used")
}

func (m *mockLoanRepo) GetByID(_ context.Context, id int64) (*Entity, error) {
	if l, ok := m.byID[id]; ok {
		return l, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockLoanRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.byID[id]
	return ok, nil
}

func (m *mockLoanRepo) ListByCustomer(_ context.Context, customerID int64) ([]Entity, error) {
	out := make([]Entity, 0)
	for _, l := range m.byID {
		if l.CustomerID == customerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

type mockCustomerRepo struct {
	byID map[int64]*customerdomain.Entity
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id int64) (*customerdomain.Entity, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

type mockApprovalRepo struct {
	approved map[int64]decimal.Decimal
}

func (m *mockApprovalRepo) IsLoanApproved(_ context.Context, loanID int64) (bool, *decimal.Decimal, error) {
	if rate, ok := m.approved[loanID]; ok {
		return true, &rate, nil
	}
	return false, nil, nil
}

func newViewService(loans map[int64]*Entity, approved map[int64]decimal.Decimal) *Service {
	svc := NewService(
		&mockLoanRepo{byID: loans},
		&mockCustomerRepo{byID: map[int64]*customerdomain.Entity{
			1: {ID: 1, FirstName: "Asha", LastName: "Verma", MonthlySalary: decimal.NewFromInt(50_000)},
		}},
		&mockApprovalRepo{approved: approved},
	)
	svc.now = func() time.Time { return date(2026, time.June, 15) }
	return svc
}

func TestGetLoanUsesApprovedRate(t *testing.T) {
	loans := map[int64]*Entity{
		7: {
			ID:           7,
			CustomerID:   1,
			LoanAmount:   decimal.NewFromInt(100_000),
			TenureMonths: 12,
			InterestRate: decimal.NewFromInt(12),
			StartDate:    date(2026, time.January, 10),
			EndDate:      date(2027, time.January, 10),
		},
	}
	svc := newViewService(loans, map[int64]decimal.Decimal{
		7: decimal.RequireFromString("12.1"),
	})

	view, err := svc.GetLoan(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetLoan: %v", err)
	}
	if !view.Approved {
		t.Error("loan should be approved")
	}
	if view.EffectiveRate.String() != "12.1" {
		t.Errorf("EffectiveRate = %s, want 12.1", view.EffectiveRate)
	}
	if view.Customer.ID != 1 {
		t.Errorf("Customer.ID = %d, want 1", view.Customer.ID)
	}
	if view.RepaymentsLeft != 7 {
		t.Errorf("RepaymentsLeft = %d, want 7", view.RepaymentsLeft)
	}
}

func TestGetLoanWithoutApprovalKeepsBookedRate(t *testing.T) {
	loans := map[int64]*Entity{
		3: {
			ID:           3,
			CustomerID:   1,
			TenureMonths: 12,
			InterestRate: decimal.NewFromInt(14),
			StartDate:    date(2026, time.January, 10),
			EndDate:      date(2027, time.January, 10),
		},
	}
	svc := newViewService(loans, nil)

	view, err := svc.GetLoan(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetLoan: %v", err)
	}
	if view.Approved {
		t.Error("ingested loan without an application should not show approved")
	}
	if view.EffectiveRate.String() != "14" {
		t.Errorf("EffectiveRate = %s, want 14", view.EffectiveRate)
	}
}

func TestGetLoanNotFound(t *testing.T) {
	svc := newViewService(map[int64]*Entity{}, nil)
	if _, err := svc.GetLoan(context.Background(), 99); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("got %v, want pgx.ErrNoRows", err)
	}
}

func TestListByCustomerUnknownCustomer(t *testing.T) {
	svc := newViewService(map[int64]*Entity{}, nil)
	if _, err := svc.ListByCustomer(context.Background(), 42); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("got %v, want pgx.ErrNoRows", err)
	}
}

func TestListByCustomer(t *testing.T) {
	loans := map[int64]*Entity{
		5: {
			ID:           5,
			CustomerID:   1,
			TenureMonths: 12,
			StartDate:    date(2026, time.January, 10),
			EndDate:      date(2027, time.January, 10),
		},
		6: {
			ID:           6,
			CustomerID:   2,
			TenureMonths: 12,
			StartDate:    date(2026, time.January, 10),
			EndDate:      date(2027, time.January, 10),
		},
	}
	svc := newViewService(loans, map[int64]decimal.Decimal{5: decimal.NewFromInt(12)})

	items, err := svc.ListByCustomer(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Loan.ID != 5 || !items[0].Approved || items[0].RepaymentsLeft != 7 {
		t.Errorf("unexpected item: %+v", items[0])
	}
}
