package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerdesk/internal/domain/user"
	"ledgerdesk/internal/shared/auth"
	"ledgerdesk/internal/shared/middleware"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ListFunc       func(ctx context.Context) ([]*user.User, error)
	UpdateFunc     func(ctx context.Context, userID int64, params user.UpdateUserParams) (*user.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) List(ctx context.Context) ([]*user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepo) Update(ctx context.Context, userID int64, params user.UpdateUserParams) (*user.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, params)
	}
	return nil, user.ErrUserNotFound
}

func newUserService(repo *MockUserRepo) *user.Service {
	return user.NewService(repo, auth.NewJWT("test-secret"))
}

func TestHandleLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := &MockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
			if email != "ops@bank.example" {
				return nil, user.ErrUserNotFound
			}
			return &user.User{
				ID:           1,
				Email:        email,
				Role:         user.RoleOperator,
				PasswordHash: hash,
				IsActive:     true,
			}, nil
		},
	}
	handler := NewAuthHandler(newUserService(repo))

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Success", `{"email":"ops@bank.example","password":"correct horse"}`, http.StatusOK},
		{"Wrong Password", `{"email":"ops@bank.example","password":"wrong"}`, http.StatusUnauthorized},
		{"Unknown Email", `{"email":"other@bank.example","password":"correct horse"}`, http.StatusUnauthorized},
		{"Missing Password", `{"email":"ops@bank.example"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.HandleLogin(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d (body: %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				var resp AuthResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token in the response")
				}

				var foundCookie bool
				for _, c := range rr.Result().Cookies() {
					if c.Name == "access_token" && c.Value != "" && c.HttpOnly {
						foundCookie = true
					}
				}
				if !foundCookie {
					t.Error("expected an HttpOnly access_token cookie")
				}
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	repo := &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
			if id != 1 {
				return nil, user.ErrUserNotFound
			}
			return &user.User{ID: 1, Email: "ops@bank.example", IsActive: true}, nil
		},
	}
	handler := NewUserHandler(newUserService(repo))

	tests := []struct {
		name           string
		userID         int64
		expectedStatus int
	}{
		{"Success", 1, http.StatusOK},
		{"Not Found", 99, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, tt.userID)
			req = req.WithContext(ctx)
			rr := httptest.NewRecorder()

			handler.HandleMe(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleUsers_Create(t *testing.T) {
	repo := &MockUserRepo{
		CreateFunc: func(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
			return &user.User{
				ID:       2,
				Email:    params.Email,
				Name:     params.Name,
				Role:     params.Role,
				IsActive: true,
			}, nil
		},
	}
	handler := NewUserHandler(newUserService(repo))

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Success", `{"email":"new@bank.example","name":"New Operator","password":"long enough"}`, http.StatusCreated},
		{"Short Password", `{"email":"new@bank.example","name":"New Operator","password":"short"}`, http.StatusBadRequest},
		{"Bad Role", `{"email":"new@bank.example","name":"New Operator","role":"root","password":"long enough"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.HandleUsers(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d (body: %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var created user.User
				if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if created.Role != user.RoleOperator {
					t.Errorf("expected default role %q, got %q", user.RoleOperator, created.Role)
				}
			}
		})
	}
}

func TestHandleSetActive(t *testing.T) {
	var gotParams user.UpdateUserParams
	repo := &MockUserRepo{
		UpdateFunc: func(ctx context.Context, userID int64, params user.UpdateUserParams) (*user.User, error) {
			gotParams = params
			return &user.User{ID: userID, IsActive: *params.IsActive}, nil
		},
	}
	handler := NewUserHandler(newUserService(repo))

	req := httptest.NewRequest(http.MethodPatch, "/api/users/5", bytes.NewBufferString(`{"active":false}`))
	req.SetPathValue("id", "5")
	rr := httptest.NewRecorder()

	handler.HandleSetActive(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if gotParams.IsActive == nil || *gotParams.IsActive {
		t.Error("expected the operator to be deactivated")
	}
}
