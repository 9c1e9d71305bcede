package ingest

import (
	"context"
	"time"
)

const (
	KindCustomers = "load_customers"
	KindLoans     = "load_loans"
)

const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// maxRowErrors bounds the per-row error list stored on a job.
const maxRowErrors = 10

type Job struct {
	ID          string
	Kind        string
	FileName    string
	FilePath    string
	FileDigest  []byte
	Status      string
	Attempts    int32
	LastError   string
	TotalRows   int32
	CreatedRows int32
	SkippedRows int32
	FailedRows  int32
	RowErrors   []string
	AvailableAt time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type EnqueueInput struct {
	ID         string
	Kind       string
	FileName   string
	FilePath   string
	FileDigest []byte
}

type Result struct {
	TotalRows   int32    `json:"total_rows"`
	CreatedRows int32    `json:"created_rows"`
	SkippedRows int32    `json:"skipped_rows"`
	FailedRows  int32    `json:"failed_rows"`
	RowErrors   []string `json:"row_errors"`
}

type JobRepository interface {
	Enqueue(ctx context.Context, in EnqueueInput) (*Job, error)
	GetByID(ctx context.Context, id string) (*Job, error)
	ClaimPending(ctx context.Context, limit int32) ([]Job, error)
	MarkCompleted(ctx context.Context, id string, res Result) error
	MarkRetry(ctx context.Context, id string, nextAvailableAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, id string, lastError string) error
}

// Notifier publishes job lifecycle events; the ws hub implements it.
type Notifier interface {
	JobProgress(jobID string, created, total int32)
	JobFinished(jobID, status string)
}
