package user

import (
	"context"
	"errors"
	"strings"

	"ledgerdesk/internal/shared/auth"
)

// Service contains the business logic for operator accounts
type Service struct {
	repo Repository
	jwt  *auth.JWT
}

// NewService creates a new user service
func NewService(repo Repository, jwt *auth.JWT) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// Login verifies credentials and returns a session token with the operator.
// Inactive operators cannot log in.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Create registers a new operator account
func (s *Service) Create(ctx context.Context, email, name, role, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || name == "" {
		return nil, ErrInvalidInput
	}
	if role == "" {
		role = RoleOperator
	}
	if !IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, CreateUserParams{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	})
}

// Get retrieves an operator by ID
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves all operators
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// ChangePassword verifies the current password and stores a new hash
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(u.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	_, err = s.repo.Update(ctx, id, UpdateUserParams{PasswordHash: &hash})
	return err
}

// SetActive enables or disables an operator account
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.Update(ctx, id, UpdateUserParams{IsActive: &active})
}
