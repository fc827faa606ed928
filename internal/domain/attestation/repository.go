package attestation

import (
	"context"
	"time"
)

// Repository defines the interface for attestation persistence
type Repository interface {
	Create(ctx context.Context, a *Attestation) (*Attestation, error)
	GetByID(ctx context.Context, id int64) (*Attestation, error)
	GetByReference(ctx context.Context, reference string) (*Attestation, error)

	// ListByIBAN returns attestations carrying the IBAN string, newest
	// first. This is a best-effort text match, not a foreign key.
	ListByIBAN(ctx context.Context, iban string) ([]*Attestation, error)

	List(ctx context.Context, status string, limit int) ([]*Attestation, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Attestation, error)

	// ExpireOverdue moves issued attestations whose expiry has passed to
	// expired and returns how many rows changed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
