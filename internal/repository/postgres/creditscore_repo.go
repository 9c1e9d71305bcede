package postgres

import (
	"context"

	"github.com/creditdesk/backend/internal/domain/creditscore"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CreditScoreRepository struct {
	pool *pgxpool.Pool
}

func NewCreditScoreRepository(pool *pgxpool.Pool) *CreditScoreRepository {
	return &CreditScoreRepository{pool: pool}
}

const scoreColumns = `id, customer_id, score, on_time_score, loan_count_score, current_year_score, volume_score, is_current, calculated_at`

func (r *CreditScoreRepository) GetCurrent(ctx context.Context, customerID int64) (*creditscore.Record, error) {
	q := `SELECT ` + scoreColumns + ` FROM credit_scores WHERE customer_id = $1 AND is_current`
	out := &creditscore.Record{}
	err := r.pool.QueryRow(ctx, q, customerID).Scan(
		&out.ID, &out.CustomerID, &out.Score, &out.OnTimeScore, &out.LoanCountScore,
		&out.CurrentYearScore, &out.VolumeScore, &out.IsCurrent, &out.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceCurrent demotes the previous current record and inserts the new
// one in a single transaction, preserving at most one current score per
// customer. Superseded records are kept for history, never edited.
func (r *CreditScoreRepository) ReplaceCurrent(ctx context.Context, in creditscore.UpsertInput) (*creditscore.Record, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE credit_scores SET is_current = FALSE WHERE customer_id = $1 AND is_current`,
		in.CustomerID,
	); err != nil {
		return nil, err
	}

	q := `
INSERT INTO credit_scores (customer_id, score, on_time_score, loan_count_score, current_year_score, volume_score, is_current)
VALUES ($1,$2,$3,$4,$5,$6,TRUE)
RETURNING ` + scoreColumns
	out := &creditscore.Record{}
	err = tx.QueryRow(ctx, q,
		in.CustomerID, in.Score, in.OnTimeScore, in.LoanCountScore, in.CurrentYearScore, in.VolumeScore,
	).Scan(
		&out.ID, &out.CustomerID, &out.Score, &out.OnTimeScore, &out.LoanCountScore,
		&out.CurrentYearScore, &out.VolumeScore, &out.IsCurrent, &out.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
