package postgres

import (
	"context"

	"github.com/creditdesk/backend/internal/domain/loan"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, customer_id, loan_amount, tenure_months, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at`

func (r *LoanRepository) Create(ctx context.Context, in loan.CreateInput) (*loan.Entity, error) {
	var q string
	args := []any{
		in.CustomerID, in.LoanAmount, in.TenureMonths, in.InterestRate,
		in.MonthlyRepayment, in.EMIsPaidOnTime, in.StartDate, in.EndDate,
	}
	if in.ID != 0 {
		// bulk ingestion carries explicit loan ids
		q = `
INSERT INTO loans (customer_id, loan_amount, tenure_months, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + loanColumns
		args = append(args, in.ID)
	} else {
		q = `
INSERT INTO loans (customer_id, loan_amount, tenure_months, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING ` + loanColumns
	}

	out := &loan.Entity{}
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&out.ID, &out.CustomerID, &out.LoanAmount, &out.TenureMonths, &out.InterestRate,
		&out.MonthlyRepayment, &out.EMIsPaidOnTime, &out.StartDate, &out.EndDate, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*loan.Entity, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	out := &loan.Entity{}
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&out.ID, &out.CustomerID, &out.LoanAmount, &out.TenureMonths, &out.InterestRate,
		&out.MonthlyRepayment, &out.EMIsPaidOnTime, &out.StartDate, &out.EndDate, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]loan.Entity, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY start_date, id`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]loan.Entity, 0)
	for rows.Next() {
		var item loan.Entity
		if err := rows.Scan(
			&item.ID, &item.CustomerID, &item.LoanAmount, &item.TenureMonths, &item.InterestRate,
			&item.MonthlyRepayment, &item.EMIsPaidOnTime, &item.StartDate, &item.EndDate, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
