package account

import (
	"context"
	"errors"
	"fmt"

	"ledgerdesk/internal/domain/client"
	"ledgerdesk/internal/domain/iban"

	"github.com/shopspring/decimal"
)

// ibanDrawAttempts bounds the retry loop when a drawn IBAN collides with an
// existing one. The generator does not guarantee uniqueness; the store's
// unique constraint does.
const ibanDrawAttempts = 3

// Service contains the business logic for account operations
type Service struct {
	repo    Repository
	clients client.Repository
	gen     *iban.Generator
}

// NewService creates a new account service
func NewService(repo Repository, clients client.Repository, gen *iban.Generator) *Service {
	if gen == nil {
		gen = iban.NewGenerator(nil)
	}
	return &Service{repo: repo, clients: clients, gen: gen}
}

// OpenParams describes a request to open an account for a client.
type OpenParams struct {
	ClientID   int64
	ProfileKey string // bank profile; unknown keys fall back to the default
	Currency   string
	Kind       string
}

// Open generates a fresh identifier and persists a new account with a zero
// balance. Any opening deposit is booked afterwards through the transaction
// executor so that the balance stays equal to the signed transaction sum.
func (s *Service) Open(ctx context.Context, params OpenParams) (*Account, error) {
	if params.ClientID <= 0 {
		return nil, ErrInvalidInput
	}
	if params.Currency == "" {
		params.Currency = "EUR"
	}
	if params.Kind == "" {
		params.Kind = KindCurrent
	}
	if !IsValidCurrency(params.Currency) {
		return nil, ErrInvalidCurrency
	}
	if !IsValidKind(params.Kind) {
		return nil, ErrInvalidKind
	}

	owner, err := s.clients.GetByID(ctx, params.ClientID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, client.ErrClientNotFound
	}

	var lastErr error
	for attempt := 0; attempt < ibanDrawAttempts; attempt++ {
		c := s.gen.Draw(params.ProfileKey)

		acc, err := s.repo.Create(ctx, CreateParams{
			ClientID:      params.ClientID,
			IBAN:          c.IBAN(),
			Currency:      params.Currency,
			Kind:          params.Kind,
			Balance:       decimal.Zero,
			BankName:      c.BankName,
			BankCode:      c.BankCode,
			BranchCode:    c.BranchCode,
			AccountNumber: c.AccountNumber,
			RIBKey:        c.RIBKey,
			BIC:           c.BIC,
		})
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, ErrDuplicateIBAN) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("could not draw a unique iban after %d attempts: %w", ibanDrawAttempts, lastErr)
}

// Get retrieves an account by ID
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetByIBAN retrieves an account snapshot by its IBAN. Returns
// ErrAccountNotFound when no account carries the identifier.
func (s *Service) GetByIBAN(ctx context.Context, ibanStr string) (*Account, error) {
	if ibanStr == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByIBAN(ctx, ibanStr)
}

// ListByClient retrieves all accounts owned by a client
func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*Account, error) {
	if clientID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByClientID(ctx, clientID)
}

// Search retrieves account snapshots matching the filters
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]*AccountWithHolder, error) {
	if filters.Kind != "" && !IsValidKind(filters.Kind) {
		return nil, ErrInvalidKind
	}
	if filters.MinBalance != nil && filters.MaxBalance != nil &&
		filters.MinBalance.GreaterThan(*filters.MaxBalance) {
		return nil, ErrInvalidInput
	}
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	return s.repo.Search(ctx, filters)
}
