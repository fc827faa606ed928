package account

import "context"

// Repository defines the interface for account data access.
// Defined in the domain layer, implemented in the infrastructure layer.
// All reads reflect committed data only.
type Repository interface {
	// Create persists a new account. Returns ErrDuplicateIBAN when the
	// store's unique constraint on the IBAN rejects the insert.
	Create(ctx context.Context, params CreateParams) (*Account, error)

	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByIBAN(ctx context.Context, iban string) (*Account, error)
	ListByClientID(ctx context.Context, clientID int64) ([]*Account, error)

	// Search retrieves accounts joined with holder names matching filters.
	Search(ctx context.Context, filters SearchFilters) ([]*AccountWithHolder, error)
}
