package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/creditdesk/backend/internal/ingest"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IngestJobRepository struct {
	pool *pgxpool.Pool
}

func NewIngestJobRepository(pool *pgxpool.Pool) *IngestJobRepository {
	return &IngestJobRepository{pool: pool}
}

const jobColumns = `id, kind, file_name, file_path, file_digest, status, attempts, COALESCE(last_error, ''),
       total_rows, created_rows, skipped_rows, failed_rows, row_errors, available_at, created_at, completed_at`

func (r *IngestJobRepository) Enqueue(ctx context.Context, in ingest.EnqueueInput) (*ingest.Job, error) {
	q := `
INSERT INTO ingest_jobs (id, kind, file_name, file_path, file_digest, status)
VALUES ($1,$2,$3,$4,$5,'queued')
RETURNING ` + jobColumns
	return scanJob(r.pool.QueryRow(ctx, q, in.ID, in.Kind, in.FileName, in.FilePath, in.FileDigest))
}

func (r *IngestJobRepository) GetByID(ctx context.Context, id string) (*ingest.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM ingest_jobs WHERE id = $1`
	return scanJob(r.pool.QueryRow(ctx, q, id))
}

// ClaimPending marks a batch of due jobs running and returns them. SKIP
// LOCKED keeps concurrent workers from claiming the same job.
func (r *IngestJobRepository) ClaimPending(ctx context.Context, limit int32) ([]ingest.Job, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `
UPDATE ingest_jobs
SET status = 'running', attempts = attempts + 1
WHERE id IN (
  SELECT id FROM ingest_jobs
  WHERE status = 'queued' AND available_at <= NOW()
  ORDER BY created_at
  LIMIT $1
  FOR UPDATE SKIP LOCKED
)
RETURNING ` + jobColumns
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ingest.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *IngestJobRepository) MarkCompleted(ctx context.Context, id string, res ingest.Result) error {
	rowErrors, err := json.Marshal(res.RowErrors)
	if err != nil {
		return err
	}
	q := `
UPDATE ingest_jobs
SET status = 'completed', total_rows = $2, created_rows = $3, skipped_rows = $4,
    failed_rows = $5, row_errors = $6::jsonb, completed_at = NOW()
WHERE id = $1
`
	_, err = r.pool.Exec(ctx, q, id, res.TotalRows, res.CreatedRows, res.SkippedRows, res.FailedRows, rowErrors)
	return err
}

func (r *IngestJobRepository) MarkRetry(ctx context.Context, id string, nextAvailableAt time.Time, lastError string) error {
	q := `UPDATE ingest_jobs SET status = 'queued', available_at = $2, last_error = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, nextAvailableAt, lastError)
	return err
}

func (r *IngestJobRepository) MarkFailed(ctx context.Context, id string, lastError string) error {
	q := `UPDATE ingest_jobs SET status = 'failed', last_error = $2, completed_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, lastError)
	return err
}

func scanJob(row rowScanner) (*ingest.Job, error) {
	out := &ingest.Job{}
	var rowErrors []byte
	err := row.Scan(
		&out.ID, &out.Kind, &out.FileName, &out.FilePath, &out.FileDigest, &out.Status,
		&out.Attempts, &out.LastError, &out.TotalRows, &out.CreatedRows, &out.SkippedRows,
		&out.FailedRows, &rowErrors, &out.AvailableAt, &out.CreatedAt, &out.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rowErrors) > 0 {
		if err := json.Unmarshal(rowErrors, &out.RowErrors); err != nil {
			return nil, err
		}
	}
	return out, nil
}
