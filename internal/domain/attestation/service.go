package attestation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"
)

// Service contains the business logic for attestation operations
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new attestation service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// newReference produces a human-readable reference like AVI-2025-9f2c41ab.
func newReference(issuedAt time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating attestation reference: %w", err)
	}
	return fmt.Sprintf("AVI-%d-%s", issuedAt.Year(), hex.EncodeToString(buf)), nil
}

// Issue creates an attestation with a generated reference. The record lands
// in issued status, or in draft when the caller wants review before issuing.
func (s *Service) Issue(ctx context.Context, params IssueParams) (*Attestation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	issuedAt := s.now().UTC()
	expiresAt := params.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = issuedAt.Add(DefaultValidity)
	}
	if !expiresAt.After(issuedAt) {
		return nil, fmt.Errorf("%w: expiry must be after issuance", ErrInvalidInput)
	}

	ref, err := newReference(issuedAt)
	if err != nil {
		return nil, err
	}

	status := StatusIssued
	if params.Draft {
		status = StatusDraft
	}

	a, err := s.repo.Create(ctx, &Attestation{
		Reference: ref,
		FullName:  params.FullName,
		IBAN:      params.IBAN,
		BIC:       params.BIC,
		Amount:    params.Amount,
		Status:    status,
		Comments:  params.Comments,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Created %s attestation %s for %s", a.Status, a.Reference, a.FullName)
	return a, nil
}

// Get retrieves an attestation by ID
func (s *Service) Get(ctx context.Context, id int64) (*Attestation, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetByReference retrieves an attestation by its reference string
func (s *Service) GetByReference(ctx context.Context, reference string) (*Attestation, error) {
	if reference == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByReference(ctx, reference)
}

// ListByIBAN retrieves attestations carrying the given IBAN text
func (s *Service) ListByIBAN(ctx context.Context, iban string) ([]*Attestation, error) {
	if iban == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByIBAN(ctx, iban)
}

// List retrieves attestations, optionally filtered by status
func (s *Service) List(ctx context.Context, status string, limit int) ([]*Attestation, error) {
	if status != "" && !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.List(ctx, status, limit)
}

// UpdateStatus moves an attestation to a new status. Only the legal moves
// are accepted: a draft can be issued, an issued record can expire or be
// revoked.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Attestation, error) {
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, a.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	log.Printf("Attestation %s moved from %s to %s", updated.Reference, a.Status, updated.Status)
	return updated, nil
}

// Revoke moves an issued attestation to revoked status
func (s *Service) Revoke(ctx context.Context, id int64) (*Attestation, error) {
	a, err := s.UpdateStatus(ctx, id, StatusRevoked)
	if errors.Is(err, ErrIllegalTransition) {
		return nil, ErrNotIssued
	}
	return a, err
}

// ExpireOverdue moves issued attestations past their expiry to expired
// status. Run periodically by the scheduler.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("Expired %d overdue attestations", n)
	}
	return n, nil
}
