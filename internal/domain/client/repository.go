package client

import "context"

// Repository defines the interface for client data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Client, error)
	GetByID(ctx context.Context, id int64) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, filters SearchFilters) ([]*Client, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Client, error)

	// Delete removes a client. The store cascades the delete to the client's
	// accounts and their transactions.
	Delete(ctx context.Context, id int64) error
}
