package user

import (
	"errors"
	"time"
)

// Operator roles. Admins can manage other operators and run destructive
// operations; operators handle day-to-day client and ledger work.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

var roles = map[string]struct{}{
	RoleAdmin:    {},
	RoleOperator: {},
}

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidInput       = errors.New("invalid input")
)

// User is a dashboard operator account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateUserParams contains parameters for creating an operator
type CreateUserParams struct {
	Email        string
	Name         string
	Role         string
	PasswordHash string
}

// UpdateUserParams contains fields for updating an operator. Nil fields are
// left unchanged.
type UpdateUserParams struct {
	Name         *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// IsValidRole checks if the provided role is valid.
func IsValidRole(r string) bool {
	_, ok := roles[r]
	return ok
}
