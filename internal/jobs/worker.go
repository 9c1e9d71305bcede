package jobs

import (
	"context"
	"time"

	"github.com/creditdesk/backend/internal/ingest"
)

type Runner interface {
	Run(ctx context.Context, job ingest.Job) (*ingest.Result, error)
}

type Notifier interface {
	JobFinished(jobID, status string)
}

type Worker struct {
	jobRepo      ingest.JobRepository
	runner       Runner
	notifier     Notifier
	maxAttempts  int32
	now          func() time.Time
	retryBackoff func(attempt int32) time.Duration
}

func NewWorker(jobRepo ingest.JobRepository, runner Runner, notifier Notifier) *Worker {
	return &Worker{
		jobRepo:     jobRepo,
		runner:      runner,
		notifier:    notifier,
		maxAttempts: 5,
		now:         func() time.Time { return time.Now().UTC() },
		retryBackoff: func(attempt int32) time.Duration {
			if attempt < 1 {
				attempt = 1
			}
			return time.Duration(attempt*15) * time.Second
		},
	}
}

func (w *Worker) RunOnce(ctx context.Context, batchSize int32) error {
	jobs, err := w.jobRepo.ClaimPending(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if err := w.processJob(ctx, job); err != nil {
			return err
		}
	}

	return nil
}

func (w *Worker) processJob(ctx context.Context, job ingest.Job) error {
	res, err := w.runner.Run(ctx, job)
	if err != nil {
		return w.handleJobError(ctx, job, err)
	}

	if err := w.jobRepo.MarkCompleted(ctx, job.ID, *res); err != nil {
		return err
	}
	if w.notifier != nil {
		w.notifier.JobFinished(job.ID, ingest.JobStatusCompleted)
	}
	return nil
}

func (w *Worker) handleJobError(ctx context.Context, job ingest.Job, cause error) error {
	msg := cause.Error()
	if job.Attempts >= w.maxAttempts {
		if err := w.jobRepo.MarkFailed(ctx, job.ID, msg); err != nil {
			return err
		}
		if w.notifier != nil {
			w.notifier.JobFinished(job.ID, ingest.JobStatusFailed)
		}
		return nil
	}
	next := w.now().Add(w.retryBackoff(job.Attempts))
	return w.jobRepo.MarkRetry(ctx, job.ID, next, msg)
}
