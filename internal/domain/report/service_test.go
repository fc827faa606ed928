package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockReportRepo struct {
	dailyTotals []*DayTotals
	since       time.Time
	until       time.Time

	recentLimit   int
	searchFilters SearchFilters
}

func (m *mockReportRepo) Overview(ctx context.Context) (*Overview, error) {
	return &Overview{
		ActiveClients:     2,
		TodayTransactions: 5,
		TotalDeposits:     decimal.NewFromInt(160),
		TotalWithdrawals:  decimal.NewFromInt(40),
	}, nil
}

func (m *mockReportRepo) DailyTotals(ctx context.Context, since, until time.Time) ([]*DayTotals, error) {
	m.since, m.until = since, until
	return m.dailyTotals, nil
}

func (m *mockReportRepo) ClientsByType(ctx context.Context) ([]*TypeCount, error) {
	return []*TypeCount{{Type: "individual", Count: 2}}, nil
}

func (m *mockReportRepo) RecentTransactions(ctx context.Context, limit int) ([]*TransactionDetail, error) {
	m.recentLimit = limit
	return nil, nil
}

func (m *mockReportRepo) SearchTransactions(ctx context.Context, filters SearchFilters) ([]*TransactionDetail, error) {
	m.searchFilters = filters
	return nil, nil
}

func TestOverview_KPIShape(t *testing.T) {
	service := NewService(&mockReportRepo{})

	o, err := service.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if o.ActiveClients != 2 {
		t.Errorf("expected 2 active clients, got %d", o.ActiveClients)
	}
	if o.TodayTransactions != 5 {
		t.Errorf("expected 5 transactions today, got %d", o.TodayTransactions)
	}
	if !o.TotalDeposits.Equal(decimal.NewFromInt(160)) {
		t.Errorf("expected total deposits 160, got %s", o.TotalDeposits)
	}
	if !o.TotalWithdrawals.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected total withdrawals 40, got %s", o.TotalWithdrawals)
	}
}

func TestWeeklyTotals_FillsMissingDays(t *testing.T) {
	repo := &mockReportRepo{}
	service := NewService(repo)
	fixed := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	// only two of the seven days saw movement
	repo.dailyTotals = []*DayTotals{
		{Day: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Deposits: decimal.NewFromInt(100), Withdrawals: decimal.NewFromInt(20)},
		{Day: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), Deposits: decimal.NewFromInt(50), Withdrawals: decimal.Zero},
	}

	out, err := service.WeeklyTotals(context.Background())
	if err != nil {
		t.Fatalf("WeeklyTotals failed: %v", err)
	}
	if len(out) != 7 {
		t.Fatalf("expected 7 days, got %d", len(out))
	}
	if !out[0].Day.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window starts at %s", out[0].Day)
	}
	if !out[6].Day.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window ends at %s", out[6].Day)
	}
	if !out[3].Deposits.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected deposits 100 on day 4, got %s", out[3].Deposits)
	}
	if !out[0].Deposits.IsZero() || !out[0].Withdrawals.IsZero() {
		t.Errorf("missing day not zero-filled: %s / %s", out[0].Deposits, out[0].Withdrawals)
	}
}

func TestRecentTransactions_ClampsLimit(t *testing.T) {
	repo := &mockReportRepo{}
	service := NewService(repo)

	if _, err := service.RecentTransactions(context.Background(), 0); err != nil {
		t.Fatalf("RecentTransactions failed: %v", err)
	}
	if repo.recentLimit != 10 {
		t.Errorf("expected default limit 10, got %d", repo.recentLimit)
	}
	if _, err := service.RecentTransactions(context.Background(), 1000); err != nil {
		t.Fatalf("RecentTransactions failed: %v", err)
	}
	if repo.recentLimit != 10 {
		t.Errorf("expected oversized limit clamped to 10, got %d", repo.recentLimit)
	}
}

func TestSearchTransactions_Validation(t *testing.T) {
	repo := &mockReportRepo{}
	service := NewService(repo)

	if _, err := service.SearchTransactions(context.Background(), SearchFilters{Kind: "loan"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad kind, got %v", err)
	}

	from := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	if _, err := service.SearchTransactions(context.Background(), SearchFilters{From: from, To: to}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for inverted range, got %v", err)
	}

	if _, err := service.SearchTransactions(context.Background(), SearchFilters{Query: "jane"}); err != nil {
		t.Fatalf("SearchTransactions failed: %v", err)
	}
	if repo.searchFilters.Limit != 100 {
		t.Errorf("expected default limit 100, got %d", repo.searchFilters.Limit)
	}
}
