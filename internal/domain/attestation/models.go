package attestation

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Attestation statuses. Draft records can still be edited; issued records
// are final and only move to expired or revoked.
const (
	StatusDraft   = "draft"
	StatusIssued  = "issued"
	StatusExpired = "expired"
	StatusRevoked = "revoked"
)

var statuses = map[string]struct{}{
	StatusDraft:   {},
	StatusIssued:  {},
	StatusExpired: {},
	StatusRevoked: {},
}

// Legal status moves. Expired and revoked are terminal.
var transitions = map[string][]string{
	StatusDraft:  {StatusIssued},
	StatusIssued: {StatusExpired, StatusRevoked},
}

// CanTransition reports whether a record may move between the two statuses.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DefaultValidity is how long an attestation stays valid when no explicit
// expiry is requested.
const DefaultValidity = 90 * 24 * time.Hour

// Domain errors
var (
	ErrAttestationNotFound = errors.New("attestation not found")
	ErrInvalidStatus       = errors.New("invalid attestation status")
	ErrIllegalTransition   = errors.New("illegal attestation status transition")
	ErrNotIssued           = errors.New("attestation is not in issued status")
	ErrInvalidInput        = errors.New("invalid input")
)

// Attestation is a standalone balance-attestation document record (AVI). It
// carries the holder and account identifiers as plain text rather than
// foreign keys so the document stays readable after the account changes.
type Attestation struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	FullName  string          `json:"fullName"`
	IBAN      string          `json:"iban"`
	BIC       string          `json:"bic"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Comments  string          `json:"comments"`
	IssuedAt  time.Time       `json:"issuedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
	CreatedAt time.Time       `json:"createdAt"`
}

// IssueParams describes a request to issue an attestation.
type IssueParams struct {
	FullName  string
	IBAN      string
	BIC       string
	Amount    decimal.Decimal
	Comments  string
	ExpiresAt time.Time // zero means IssuedAt + DefaultValidity
	Draft     bool      // create in draft status for review before issuing
}

// Validate validates the issue parameters
func (p IssueParams) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("full name is required")
	}
	if strings.TrimSpace(p.IBAN) == "" {
		return errors.New("iban is required")
	}
	if p.Amount.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

// IsValidStatus checks if the provided status is valid.
func IsValidStatus(s string) bool {
	_, ok := statuses[s]
	return ok
}
