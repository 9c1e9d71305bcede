package creditscore

import (
	"context"
	"log/slog"
	"time"

	loandomain "github.com/creditdesk/backend/internal/domain/loan"
)

type CustomerRepository interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

type LoanRepository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]loandomain.Entity, error)
}

// Refresher recomputes and re-caches scores for every customer. A customer
// that fails is logged and skipped; eligibility checks tolerate a score up
// to one refresh cycle stale.
type Refresher struct {
	customerRepo CustomerRepository
	loanRepo     LoanRepository
	scoreRepo    Repository
	logger       *slog.Logger
	now          func() time.Time
}

func NewRefresher(customerRepo CustomerRepository, loanRepo LoanRepository, scoreRepo Repository, logger *slog.Logger) *Refresher {
	return &Refresher{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		scoreRepo:    scoreRepo,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (r *Refresher) RefreshAll(ctx context.Context) (int, error) {
	ids, err := r.customerRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		loans, err := r.loanRepo.ListByCustomer(ctx, id)
		if err != nil {
			r.logger.Error("score refresh: load loans failed", "customer_id", id, "err", err)
			continue
		}
		b := Calculate(loans, r.now())
		if _, err := r.scoreRepo.ReplaceCurrent(ctx, UpsertInput{
			CustomerID:       id,
			Score:            b.Score,
			OnTimeScore:      b.OnTimeScore,
			LoanCountScore:   b.LoanCountScore,
			CurrentYearScore: b.CurrentYearScore,
			VolumeScore:      b.VolumeScore,
		}); err != nil {
			r.logger.Error("score refresh: cache write failed", "customer_id", id, "err", err)
			continue
		}
		updated++
	}
	return updated, nil
}
