package client

import (
	"context"
	"errors"
)

// Service contains the business logic for client operations
type Service struct {
	repo Repository
}

// NewService creates a new client service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new client with business validation.
// New clients default to pending status until an operator activates them.
func (s *Service) Register(ctx context.Context, params CreateParams) (*Client, error) {
	if params.Status == "" {
		params.Status = StatusPending
	}
	if params.Type == "" {
		params.Type = TypeIndividual
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Email != "" {
		existing, err := s.repo.GetByEmail(ctx, params.Email)
		if err != nil && !errors.Is(err, ErrClientNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
	}

	return s.repo.Create(ctx, params)
}

// Get retrieves a client by ID
func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves clients matching the given filters
func (s *Service) List(ctx context.Context, filters SearchFilters) ([]*Client, error) {
	if filters.Type != "" && !IsValidType(filters.Type) {
		return nil, ErrInvalidType
	}
	if filters.Status != "" && !IsValidStatus(filters.Status) {
		return nil, ErrInvalidStatus
	}
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	return s.repo.List(ctx, filters)
}

// Update mutates a client record
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Client, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Email != nil && *params.Email != "" {
		existing, err := s.repo.GetByEmail(ctx, *params.Email)
		if err != nil && !errors.Is(err, ErrClientNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmailTaken
		}
	}

	return s.repo.Update(ctx, id, params)
}

// Deactivate moves a client to inactive status (the soft lifecycle used in
// normal operation instead of deletion).
func (s *Service) Deactivate(ctx context.Context, id int64) (*Client, error) {
	status := StatusInactive
	return s.Update(ctx, id, UpdateParams{Status: &status})
}

// Delete physically removes a client. The store cascades to the client's
// accounts and transactions; use Deactivate unless removal is intended.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
