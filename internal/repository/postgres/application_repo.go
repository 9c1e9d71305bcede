package postgres

import (
	"context"

	"github.com/creditdesk/backend/internal/domain/application"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

const applicationColumns = `id, customer_id, loan_id, requested_amount, requested_rate, requested_tenure, status,
       approved_amount, approved_rate, corrected_rate, monthly_installment,
       COALESCE(rejection_reason, ''), COALESCE(rejection_message, ''),
       credit_score_at_application, applied_at, processed_at`

func (r *ApplicationRepository) Create(ctx context.Context, in application.CreateInput) (*application.Entity, error) {
	q := `
INSERT INTO loan_applications (
  customer_id, requested_amount, requested_rate, requested_tenure, status,
  monthly_installment, rejection_reason, rejection_message, credit_score_at_application, processed_at
) VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),NULLIF($8,''),$9,NOW())
RETURNING ` + applicationColumns
	return r.scanOne(r.pool.QueryRow(ctx, q,
		in.CustomerID, in.RequestedAmount, in.RequestedRate, in.RequestedTenure, in.Status,
		in.MonthlyInstallment, in.RejectionReason, in.RejectionMessage, in.CreditScoreAtApplication,
	))
}

func (r *ApplicationRepository) LinkLoan(ctx context.Context, applicationID, loanID int64, approvedAmount, approvedRate decimal.Decimal) error {
	q := `
UPDATE loan_applications
SET loan_id = $2, approved_amount = $3, approved_rate = $4
WHERE id = $1 AND status = 'APPROVED'
`
	_, err := r.pool.Exec(ctx, q, applicationID, loanID, approvedAmount, approvedRate)
	return err
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*application.Entity, error) {
	q := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *ApplicationRepository) IsLoanApproved(ctx context.Context, loanID int64) (bool, *decimal.Decimal, error) {
	q := `SELECT approved_rate FROM loan_applications WHERE loan_id = $1 AND status = 'APPROVED'`
	rows, err := r.pool.Query(ctx, q, loanID)
	if err != nil {
		return false, nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return false, nil, rows.Err()
	}
	var rate *decimal.Decimal
	if err := rows.Scan(&rate); err != nil {
		return false, nil, err
	}
	return true, rate, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ApplicationRepository) scanOne(row rowScanner) (*application.Entity, error) {
	out := &application.Entity{}
	err := row.Scan(
		&out.ID, &out.CustomerID, &out.LoanID, &out.RequestedAmount, &out.RequestedRate,
		&out.RequestedTenure, &out.Status, &out.ApprovedAmount, &out.ApprovedRate,
		&out.CorrectedRate, &out.MonthlyInstallment, &out.RejectionReason, &out.RejectionMessage,
		&out.CreditScoreAtApplication, &out.AppliedAt, &out.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
