package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/client"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, client_id, iban, currency, kind, balance,
	bank_name, bank_code, branch_code, account_number, rib_key, bic, created_at`

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (client_id, iban, currency, kind, balance,
			bank_name, bank_code, branch_code, account_number, rib_key, bic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + accountColumns

	var acc account.Account
	err := r.db.QueryRowContext(ctx, query,
		params.ClientID, params.IBAN, params.Currency, params.Kind, params.Balance,
		params.BankName, params.BankCode, params.BranchCode, params.AccountNumber,
		params.RIBKey, params.BIC,
	).Scan(scanAccountDest(&acc)...)
	if err != nil {
		return nil, mapCreateAccountError(err)
	}
	return &acc, nil
}

// mapCreateAccountError translates constraint violations on the account
// insert to domain sentinels. A foreign key violation means the referenced
// client row is gone.
func mapCreateAccountError(err error) error {
	switch pqCode(err) {
	case codeUniqueViolation:
		return account.ErrDuplicateIBAN
	case codeForeignKeyViolation:
		return client.ErrClientNotFound
	}
	return fmt.Errorf("failed to create account: %w", err)
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var acc account.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(scanAccountDest(&acc)...)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// GetByIBAN retrieves an account by its IBAN
func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE iban = $1`

	var acc account.Account
	err := r.db.QueryRowContext(ctx, query, iban).Scan(scanAccountDest(&acc)...)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by iban: %w", err)
	}
	return &acc, nil
}

// ListByClientID retrieves all accounts owned by a client
func (r *AccountRepository) ListByClientID(ctx context.Context, clientID int64) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.Scan(scanAccountDest(&acc)...); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, &acc)
	}
	return out, rows.Err()
}

// Search retrieves account snapshots with holder names matching the filters
func (r *AccountRepository) Search(ctx context.Context, filters account.SearchFilters) ([]*account.AccountWithHolder, error) {
	query := `
		SELECT a.id, a.client_id, a.iban, a.currency, a.kind, a.balance,
			a.bank_name, a.bank_code, a.branch_code, a.account_number, a.rib_key, a.bic, a.created_at,
			c.first_name, c.last_name
		FROM accounts a
		JOIN clients c ON c.id = a.client_id
		WHERE 1=1`
	var args []any

	if filters.Query != "" {
		args = append(args, "%"+strings.ToLower(filters.Query)+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (LOWER(a.iban) LIKE $%d OR LOWER(c.first_name) LIKE $%d OR LOWER(c.last_name) LIKE $%d)", n, n, n)
	}
	if filters.Kind != "" {
		args = append(args, filters.Kind)
		query += fmt.Sprintf(" AND a.kind = $%d", len(args))
	}
	if filters.MinBalance != nil {
		args = append(args, *filters.MinBalance)
		query += fmt.Sprintf(" AND a.balance >= $%d", len(args))
	}
	if filters.MaxBalance != nil {
		args = append(args, *filters.MaxBalance)
		query += fmt.Sprintf(" AND a.balance <= $%d", len(args))
	}
	args = append(args, filters.Limit)
	query += fmt.Sprintf(" ORDER BY a.id DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	defer rows.Close()

	var out []*account.AccountWithHolder
	for rows.Next() {
		var awh account.AccountWithHolder
		dest := append(scanAccountDest(&awh.Account), &awh.HolderFirstName, &awh.HolderLastName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, &awh)
	}
	return out, rows.Err()
}

// QueryRowIBAN resolves just the IBAN of an account. Used by the
// notification listener, which does not need the full record.
func (r *AccountRepository) QueryRowIBAN(ctx context.Context, accountID int64) (string, error) {
	var iban string
	err := r.db.QueryRowContext(ctx, `SELECT iban FROM accounts WHERE id = $1`, accountID).Scan(&iban)
	if err == sql.ErrNoRows {
		return "", account.ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve iban: %w", err)
	}
	return iban, nil
}

// scanAccountDest returns the scan destinations in accountColumns order.
func scanAccountDest(acc *account.Account) []any {
	return []any{
		&acc.ID, &acc.ClientID, &acc.IBAN, &acc.Currency, &acc.Kind, &acc.Balance,
		&acc.BankName, &acc.BankCode, &acc.BranchCode, &acc.AccountNumber,
		&acc.RIBKey, &acc.BIC, &acc.CreatedAt,
	}
}
