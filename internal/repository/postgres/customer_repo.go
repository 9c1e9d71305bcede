package postgres

import (
	"context"

	"github.com/creditdesk/backend/internal/domain/customer"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at`

func (r *CustomerRepository) Create(ctx context.Context, in customer.CreateInput) (*customer.Entity, error) {
	q := `
INSERT INTO customers (first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + customerColumns
	out := &customer.Entity{}
	err := r.pool.QueryRow(ctx, q,
		in.FirstName, in.LastName, in.Age, in.PhoneNumber, in.MonthlySalary, in.ApprovedLimit, in.CurrentDebt,
	).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Age, &out.PhoneNumber,
		&out.MonthlySalary, &out.ApprovedLimit, &out.CurrentDebt, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Entity, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	out := &customer.Entity{}
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Age, &out.PhoneNumber,
		&out.MonthlySalary, &out.ApprovedLimit, &out.CurrentDebt, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phoneNumber int64) (*customer.Entity, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1`
	out := &customer.Entity{}
	err := r.pool.QueryRow(ctx, q, phoneNumber).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Age, &out.PhoneNumber,
		&out.MonthlySalary, &out.ApprovedLimit, &out.CurrentDebt, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecomputeCurrentDebt is a single atomic read-modify-write so concurrent
// loan creation cannot lose updates.
func (r *CustomerRepository) RecomputeCurrentDebt(ctx context.Context, id int64) error {
	q := `
UPDATE customers
SET current_debt = COALESCE((SELECT SUM(loan_amount) FROM loans WHERE customer_id = $1), 0),
    updated_at = NOW()
WHERE id = $1
`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
