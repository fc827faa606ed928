package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledgerdesk/internal/domain/report"
)

// ReportRepository implements the report.Repository interface for PostgreSQL
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Overview returns the dashboard headline figures
func (r *ReportRepository) Overview(ctx context.Context) (*report.Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM clients WHERE status = 'active'),
			(SELECT COUNT(*) FROM transactions WHERE created_at >= date_trunc('day', now())),
			(SELECT COALESCE(SUM(amount) FILTER (WHERE kind = 'deposit'), 0) FROM transactions),
			(SELECT COALESCE(SUM(amount) FILTER (WHERE kind IN ('withdrawal', 'transfer', 'direct_debit')), 0) FROM transactions)`

	var o report.Overview
	err := r.db.QueryRowContext(ctx, query).Scan(
		&o.ActiveClients, &o.TodayTransactions, &o.TotalDeposits, &o.TotalWithdrawals,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load overview: %w", err)
	}
	return &o, nil
}

// DailyTotals returns per-day deposit and withdrawal sums in [since, until)
func (r *ReportRepository) DailyTotals(ctx context.Context, since, until time.Time) ([]*report.DayTotals, error) {
	query := `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'deposit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind IN ('withdrawal', 'transfer', 'direct_debit')), 0)
		FROM transactions
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.QueryContext(ctx, query, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily totals: %w", err)
	}
	defer rows.Close()

	var out []*report.DayTotals
	for rows.Next() {
		var d report.DayTotals
		if err := rows.Scan(&d.Day, &d.Deposits, &d.Withdrawals); err != nil {
			return nil, fmt.Errorf("failed to scan daily totals: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// ClientsByType returns the client count per category
func (r *ReportRepository) ClientsByType(ctx context.Context) ([]*report.TypeCount, error) {
	query := `SELECT type, COUNT(*) FROM clients GROUP BY type ORDER BY type`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients by type: %w", err)
	}
	defer rows.Close()

	var out []*report.TypeCount
	for rows.Next() {
		var tc report.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		out = append(out, &tc)
	}
	return out, rows.Err()
}

const detailColumns = `t.id, t.reference, t.account_id, a.iban,
	c.first_name || ' ' || c.last_name, t.kind, t.amount, t.description, t.created_at`

// RecentTransactions returns the latest entries joined with holder details
func (r *ReportRepository) RecentTransactions(ctx context.Context, limit int) ([]*report.TransactionDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN clients c ON c.id = t.client_id
		ORDER BY t.id DESC
		LIMIT $1`

	return r.queryDetails(ctx, query, limit)
}

// SearchTransactions returns committed entries matching the filters
func (r *ReportRepository) SearchTransactions(ctx context.Context, filters report.SearchFilters) ([]*report.TransactionDetail, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN clients c ON c.id = t.client_id
		WHERE 1=1`
	var args []any

	if filters.Query != "" {
		args = append(args, "%"+strings.ToLower(filters.Query)+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (LOWER(a.iban) LIKE $%d OR LOWER(c.first_name) LIKE $%d OR LOWER(c.last_name) LIKE $%d OR LOWER(t.description) LIKE $%d)",
			n, n, n, n,
		)
	}
	if filters.Kind != "" {
		args = append(args, filters.Kind)
		query += fmt.Sprintf(" AND t.kind = $%d", len(args))
	}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		query += fmt.Sprintf(" AND t.created_at >= $%d", len(args))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		query += fmt.Sprintf(" AND t.created_at < $%d", len(args))
	}
	args = append(args, filters.Limit)
	query += fmt.Sprintf(" ORDER BY t.id DESC LIMIT $%d", len(args))

	return r.queryDetails(ctx, query, args...)
}

func (r *ReportRepository) queryDetails(ctx context.Context, query string, args ...any) ([]*report.TransactionDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction details: %w", err)
	}
	defer rows.Close()

	var out []*report.TransactionDetail
	for rows.Next() {
		var d report.TransactionDetail
		if err := rows.Scan(
			&d.ID, &d.Reference, &d.AccountID, &d.IBAN, &d.HolderName,
			&d.Kind, &d.Amount, &d.Description, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction detail: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
