package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ledgerdesk/internal/domain/attestation"
)

// AttestationRepository implements the attestation.Repository interface for PostgreSQL
type AttestationRepository struct {
	db *DB
}

// NewAttestationRepository creates a new PostgreSQL attestation repository
func NewAttestationRepository(db *DB) *AttestationRepository {
	return &AttestationRepository{db: db}
}

const attestationColumns = "id, reference, full_name, iban, bic, amount, status, COALESCE(comments, ''), issued_at, expires_at, created_at"

// Create persists a new attestation record
func (r *AttestationRepository) Create(ctx context.Context, a *attestation.Attestation) (*attestation.Attestation, error) {
	query := `
		INSERT INTO attestations (reference, full_name, iban, bic, amount, status, comments, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + attestationColumns

	var out attestation.Attestation
	err := r.db.QueryRowContext(ctx, query,
		a.Reference, a.FullName, a.IBAN, a.BIC, a.Amount, a.Status, a.Comments, a.IssuedAt, a.ExpiresAt,
	).Scan(scanAttestationDest(&out)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create attestation: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an attestation by its ID
func (r *AttestationRepository) GetByID(ctx context.Context, id int64) (*attestation.Attestation, error) {
	query := `SELECT ` + attestationColumns + ` FROM attestations WHERE id = $1`

	var a attestation.Attestation
	err := r.db.QueryRowContext(ctx, query, id).Scan(scanAttestationDest(&a)...)
	if err == sql.ErrNoRows {
		return nil, attestation.ErrAttestationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attestation: %w", err)
	}
	return &a, nil
}

// GetByReference retrieves an attestation by its reference string
func (r *AttestationRepository) GetByReference(ctx context.Context, reference string) (*attestation.Attestation, error) {
	query := `SELECT ` + attestationColumns + ` FROM attestations WHERE reference = $1`

	var a attestation.Attestation
	err := r.db.QueryRowContext(ctx, query, reference).Scan(scanAttestationDest(&a)...)
	if err == sql.ErrNoRows {
		return nil, attestation.ErrAttestationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attestation by reference: %w", err)
	}
	return &a, nil
}

// ListByIBAN returns attestations carrying the IBAN string, newest first
func (r *AttestationRepository) ListByIBAN(ctx context.Context, iban string) ([]*attestation.Attestation, error) {
	query := `SELECT ` + attestationColumns + ` FROM attestations WHERE iban = $1 ORDER BY id DESC`
	return r.queryList(ctx, query, iban)
}

// List retrieves attestations, optionally filtered by status, newest first
func (r *AttestationRepository) List(ctx context.Context, status string, limit int) ([]*attestation.Attestation, error) {
	if status != "" {
		query := `SELECT ` + attestationColumns + ` FROM attestations WHERE status = $1 ORDER BY id DESC LIMIT $2`
		return r.queryList(ctx, query, status, limit)
	}
	query := `SELECT ` + attestationColumns + ` FROM attestations ORDER BY id DESC LIMIT $1`
	return r.queryList(ctx, query, limit)
}

// UpdateStatus moves an attestation to a new status
func (r *AttestationRepository) UpdateStatus(ctx context.Context, id int64, status string) (*attestation.Attestation, error) {
	query := `UPDATE attestations SET status = $1 WHERE id = $2 RETURNING ` + attestationColumns

	var a attestation.Attestation
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(scanAttestationDest(&a)...)
	if err == sql.ErrNoRows {
		return nil, attestation.ErrAttestationNotFound
	}
	if err != nil {
		if pqCode(err) == codeCheckViolation {
			return nil, attestation.ErrInvalidStatus
		}
		return nil, fmt.Errorf("failed to update attestation status: %w", err)
	}
	return &a, nil
}

// ExpireOverdue moves issued attestations past their expiry to expired
func (r *AttestationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE attestations SET status = 'expired' WHERE status = 'issued' AND expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire attestations: %w", err)
	}
	return result.RowsAffected()
}

func (r *AttestationRepository) queryList(ctx context.Context, query string, args ...any) ([]*attestation.Attestation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attestations: %w", err)
	}
	defer rows.Close()

	var out []*attestation.Attestation
	for rows.Next() {
		var a attestation.Attestation
		if err := rows.Scan(scanAttestationDest(&a)...); err != nil {
			return nil, fmt.Errorf("failed to scan attestation: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// scanAttestationDest returns the scan destinations in attestationColumns order.
func scanAttestationDest(a *attestation.Attestation) []any {
	return []any{
		&a.ID, &a.Reference, &a.FullName, &a.IBAN, &a.BIC, &a.Amount,
		&a.Status, &a.Comments, &a.IssuedAt, &a.ExpiresAt, &a.CreatedAt,
	}
}
