package report

import (
	"context"
	"time"

	"ledgerdesk/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// Service contains the business logic for reporting operations
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new report service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Overview returns the dashboard headline figures
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	return s.repo.Overview(ctx)
}

// WeeklyTotals returns deposit and withdrawal sums for each of the trailing
// seven days, oldest first. Days without movement are filled with zeros so
// charts always get seven points.
func (s *Service) WeeklyTotals(ctx context.Context) ([]*DayTotals, error) {
	until := s.now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	since := until.AddDate(0, 0, -7)

	rows, err := s.repo.DailyTotals(ctx, since, until)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*DayTotals, len(rows))
	for _, r := range rows {
		byDay[r.Day.UTC().Truncate(24*time.Hour)] = r
	}

	out := make([]*DayTotals, 0, 7)
	for day := since; day.Before(until); day = day.AddDate(0, 0, 1) {
		if r, ok := byDay[day]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, &DayTotals{Day: day, Deposits: decimal.Zero, Withdrawals: decimal.Zero})
	}
	return out, nil
}

// ClientsByType returns the client count per category
func (s *Service) ClientsByType(ctx context.Context) ([]*TypeCount, error) {
	return s.repo.ClientsByType(ctx)
}

// RecentTransactions returns the latest committed entries, most recent first
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]*TransactionDetail, error) {
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	return s.repo.RecentTransactions(ctx, limit)
}

// SearchTransactions returns committed entries matching the filters
func (s *Service) SearchTransactions(ctx context.Context, filters SearchFilters) ([]*TransactionDetail, error) {
	if filters.Kind != "" && !transaction.IsValidKind(filters.Kind) {
		return nil, ErrInvalidInput
	}
	if !filters.From.IsZero() && !filters.To.IsZero() && filters.To.Before(filters.From) {
		return nil, ErrInvalidInput
	}
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	return s.repo.SearchTransactions(ctx, filters)
}
