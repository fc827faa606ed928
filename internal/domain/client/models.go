package client

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Client categories
const (
	TypeIndividual  = "individual"
	TypeBusiness    = "business"
	TypeAssociation = "association"
)

// Client lifecycle statuses. Clients are never physically deleted in normal
// operation; they are moved to inactive instead.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

var clientTypes = map[string]struct{}{
	TypeIndividual:  {},
	TypeBusiness:    {},
	TypeAssociation: {},
}

var clientStatuses = map[string]struct{}{
	StatusActive:   {},
	StatusInactive: {},
	StatusPending:  {},
}

// Domain errors
var (
	ErrClientNotFound = errors.New("client not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalidType    = errors.New("invalid client type")
	ErrInvalidStatus  = errors.New("invalid client status")
	ErrInvalidInput   = errors.New("invalid input")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Client is an identity record owning zero or more accounts.
type Client struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateParams contains parameters for registering a new client
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Type      string
	Status    string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return errors.New("first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return errors.New("last name is required")
	}
	if p.Email != "" && !emailPattern.MatchString(p.Email) {
		return errors.New("email is malformed")
	}
	if !IsValidType(p.Type) {
		return ErrInvalidType
	}
	if !IsValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateParams contains parameters for updating a client. Nil fields are
// left unchanged.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Type      *string
	Status    *string
}

// Validate validates the update parameters
func (p UpdateParams) Validate() error {
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		return errors.New("first name cannot be empty")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		return errors.New("last name cannot be empty")
	}
	if p.Email != nil && *p.Email != "" && !emailPattern.MatchString(*p.Email) {
		return errors.New("email is malformed")
	}
	if p.Type != nil && !IsValidType(*p.Type) {
		return ErrInvalidType
	}
	if p.Status != nil && !IsValidStatus(*p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// SearchFilters narrows List results. Zero values mean "no filter".
type SearchFilters struct {
	Query  string // matched against first name, last name and email
	Type   string
	Status string
	Limit  int
}

// IsValidType checks if the provided client type is valid.
func IsValidType(t string) bool {
	_, ok := clientTypes[t]
	return ok
}

// IsValidStatus checks if the provided status is valid.
func IsValidStatus(s string) bool {
	_, ok := clientStatuses[s]
	return ok
}
