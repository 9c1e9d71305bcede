package creditscore

import (
	"context"
	"time"
)

// Record is a cached score. At most one record per customer is current at
// any time; replacing the current one demotes the previous atomically.
type Record struct {
	ID               int64
	CustomerID       int64
	Score            int32
	OnTimeScore      int32
	LoanCountScore   int32
	CurrentYearScore int32
	VolumeScore      int32
	IsCurrent        bool
	CalculatedAt     time.Time
}

type UpsertInput struct {
	CustomerID       int64
	Score            int32
	OnTimeScore      int32
	LoanCountScore   int32
	CurrentYearScore int32
	VolumeScore      int32
}

type Repository interface {
	GetCurrent(ctx context.Context, customerID int64) (*Record, error)
	ReplaceCurrent(ctx context.Context, in UpsertInput) (*Record, error)
}
