package transaction

import "context"

// Ledger is the persistence boundary for money movement. Implementations
// must apply each call as a single atomic unit: the entry row and the
// balance update both commit or neither does, and the balance check for
// debit kinds must happen under the same lock as the update so that two
// concurrent debits cannot both pass it.
type Ledger interface {
	// Apply books one entry and adjusts the account balance. Returns
	// account.ErrAccountNotFound when the account does not exist and
	// ErrInsufficientFunds when a debit would drive the balance negative.
	Apply(ctx context.Context, entry Entry) (*Transaction, error)

	// Transfer books a debit on one account and a credit on another under
	// one commit. Both legs carry the same reference.
	Transfer(ctx context.Context, debit, credit Entry) (*Transaction, *Transaction, error)

	// GetByReference looks up a committed entry by its reference.
	GetByReference(ctx context.Context, reference string) (*Transaction, error)

	// ListByAccount returns committed entries for an account, most recent
	// first.
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*Transaction, error)
}
