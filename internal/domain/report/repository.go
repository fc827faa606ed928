package report

import (
	"context"
	"time"
)

// Repository exposes the read-only aggregations behind the dashboard. All
// methods reflect committed data only and never mutate state.
type Repository interface {
	Overview(ctx context.Context) (*Overview, error)

	// DailyTotals returns per-day deposit and withdrawal sums for days in
	// [since, until), oldest first. Days without movement are omitted.
	DailyTotals(ctx context.Context, since, until time.Time) ([]*DayTotals, error)

	ClientsByType(ctx context.Context) ([]*TypeCount, error)

	// RecentTransactions returns the latest committed entries joined with
	// holder details, most recent first.
	RecentTransactions(ctx context.Context, limit int) ([]*TransactionDetail, error)

	SearchTransactions(ctx context.Context, filters SearchFilters) ([]*TransactionDetail, error)
}
