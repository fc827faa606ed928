package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// LedgerRepository implements transaction.Ledger on PostgreSQL. Every write
// runs in one DB transaction with the account row locked by
// SELECT ... FOR UPDATE, so the balance check and the balance update are a
// single critical section per account. Nothing here is ever retried.
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const transactionColumns = "id, reference, account_id, client_id, kind, amount, description, created_at"

// Apply books one entry and adjusts the account balance atomically.
func (r *LedgerRepository) Apply(ctx context.Context, entry transaction.Entry) (*transaction.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", transaction.ErrStorage, err)
	}
	defer tx.Rollback()

	booked, err := applyLocked(ctx, tx, entry)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", transaction.ErrStorage, err)
	}
	return booked, nil
}

// Transfer books a debit and a credit under one commit. Account rows are
// locked in ascending id order so two opposing transfers cannot deadlock.
func (r *LedgerRepository) Transfer(ctx context.Context, debit, credit transaction.Entry) (*transaction.Transaction, *transaction.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: begin: %v", transaction.ErrStorage, err)
	}
	defer tx.Rollback()

	first, second := debit.AccountID, credit.AccountID
	if second < first {
		first, second = second, first
	}
	if _, _, err := lockAccount(ctx, tx, first); err != nil {
		return nil, nil, err
	}
	if _, _, err := lockAccount(ctx, tx, second); err != nil {
		return nil, nil, err
	}

	out, err := applyLocked(ctx, tx, debit)
	if err != nil {
		return nil, nil, err
	}
	in, err := applyLocked(ctx, tx, credit)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%w: commit: %v", transaction.ErrStorage, err)
	}
	return out, in, nil
}

// GetByReference looks up a committed entry by its reference
func (r *LedgerRepository) GetByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1 ORDER BY id LIMIT 1`

	var t transaction.Transaction
	err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&t.ID, &t.Reference, &t.AccountID, &t.ClientID,
		&t.Kind, &t.Amount, &t.Description, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

// ListByAccount returns committed entries for an account, most recent first
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 ORDER BY id DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(
			&t.ID, &t.Reference, &t.AccountID, &t.ClientID,
			&t.Kind, &t.Amount, &t.Description, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// lockAccount takes the row lock for one account and returns its owning
// client and current balance.
func lockAccount(ctx context.Context, tx *sql.Tx, accountID int64) (int64, decimal.Decimal, error) {
	var clientID int64
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT client_id, balance FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID,
	).Scan(&clientID, &balance)
	if err == sql.ErrNoRows {
		return 0, decimal.Decimal{}, account.ErrAccountNotFound
	}
	if err != nil {
		return 0, decimal.Decimal{}, fmt.Errorf("%w: locking account %d: %v", transaction.ErrStorage, accountID, err)
	}
	return clientID, balance, nil
}

// applyLocked performs the check-insert-update sequence for one entry inside
// an open DB transaction. Re-locking an already locked row is a no-op, so
// Transfer can pre-lock in id order and still call this per leg.
func applyLocked(ctx context.Context, tx *sql.Tx, entry transaction.Entry) (*transaction.Transaction, error) {
	clientID, balance, err := lockAccount(ctx, tx, entry.AccountID)
	if err != nil {
		return nil, err
	}

	booked := transaction.Transaction{
		Reference:   entry.Reference,
		AccountID:   entry.AccountID,
		ClientID:    clientID,
		Kind:        entry.Kind,
		Amount:      entry.Amount,
		Description: entry.Description,
	}

	next := balance.Add(booked.SignedAmount())
	if next.IsNegative() {
		return nil, transaction.ErrInsufficientFunds
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO transactions (reference, account_id, client_id, kind, amount, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		entry.Reference, entry.AccountID, clientID, entry.Kind, entry.Amount, entry.Description,
	).Scan(&booked.ID, &booked.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting entry: %v", transaction.ErrStorage, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2`,
		next, entry.AccountID,
	); err != nil {
		return nil, fmt.Errorf("%w: updating balance: %v", transaction.ErrStorage, err)
	}

	return &booked, nil
}
