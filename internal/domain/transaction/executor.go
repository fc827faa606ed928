package transaction

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Executor validates money-movement requests and books them through the
// ledger. It holds no state of its own; per-account serialization is the
// ledger's responsibility.
type Executor struct {
	ledger Ledger
}

// NewExecutor creates a new transaction executor
func NewExecutor(ledger Ledger) *Executor {
	return &Executor{ledger: ledger}
}

// Execute books a deposit, withdrawal or direct debit. The error is one of
// the package sentinels (possibly wrapped); on any error nothing was
// written.
func (e *Executor) Execute(ctx context.Context, params ExecuteParams) (*Transaction, error) {
	if params.AccountID <= 0 {
		return nil, ErrInvalidInput
	}
	if !IsValidKind(params.Kind) || params.Kind == KindTransfer {
		return nil, ErrInvalidKind
	}
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := e.ledger.Apply(ctx, Entry{
		Reference:   uuid.NewString(),
		AccountID:   params.AccountID,
		Kind:        params.Kind,
		Amount:      params.Amount,
		Description: params.Description,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Booked %s of %s on account %d (ref %s)", tx.Kind, tx.Amount, tx.AccountID, tx.Reference)
	return tx, nil
}

// Transfer moves money between two accounts. The debit leg is subject to the
// same balance check as a withdrawal; both legs commit together or not at
// all.
func (e *Executor) Transfer(ctx context.Context, params TransferParams) (*Transaction, *Transaction, error) {
	if params.FromAccountID <= 0 || params.ToAccountID <= 0 {
		return nil, nil, ErrInvalidInput
	}
	if params.FromAccountID == params.ToAccountID {
		return nil, nil, ErrSameAccount
	}
	if !params.Amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	ref := uuid.NewString()
	debit := Entry{
		Reference:   ref,
		AccountID:   params.FromAccountID,
		Kind:        KindTransfer,
		Amount:      params.Amount,
		Description: params.Description,
	}
	credit := Entry{
		Reference:   ref,
		AccountID:   params.ToAccountID,
		Kind:        KindDeposit,
		Amount:      params.Amount,
		Description: params.Description,
	}

	out, in, err := e.ledger.Transfer(ctx, debit, credit)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("Booked transfer of %s from account %d to account %d (ref %s)", params.Amount, params.FromAccountID, params.ToAccountID, ref)
	return out, in, nil
}

// Get looks up a committed entry by reference
func (e *Executor) Get(ctx context.Context, reference string) (*Transaction, error) {
	if reference == "" {
		return nil, ErrInvalidInput
	}
	return e.ledger.GetByReference(ctx, reference)
}

// History returns an account's committed entries, most recent first
func (e *Executor) History(ctx context.Context, accountID int64, limit int) ([]*Transaction, error) {
	if accountID <= 0 {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return e.ledger.ListByAccount(ctx, accountID, limit)
}
