package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledgerdesk/internal/domain/client"
)

// MockClientRepo implements client.Repository for testing
type MockClientRepo struct {
	CreateFunc     func(ctx context.Context, params client.CreateParams) (*client.Client, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*client.Client, error)
	GetByEmailFunc func(ctx context.Context, email string) (*client.Client, error)
	ListFunc       func(ctx context.Context, filters client.SearchFilters) ([]*client.Client, error)
	UpdateFunc     func(ctx context.Context, id int64, params client.UpdateParams) (*client.Client, error)
	DeleteFunc     func(ctx context.Context, id int64) error
}

func (m *MockClientRepo) Create(ctx context.Context, params client.CreateParams) (*client.Client, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockClientRepo) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, client.ErrClientNotFound
}

func (m *MockClientRepo) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, client.ErrClientNotFound
}

func (m *MockClientRepo) List(ctx context.Context, filters client.SearchFilters) ([]*client.Client, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, nil
}

func (m *MockClientRepo) Update(ctx context.Context, id int64, params client.UpdateParams) (*client.Client, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, client.ErrClientNotFound
}

func (m *MockClientRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func TestHandleClients_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repo           *MockClientRepo
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`,
			repo: &MockClientRepo{
				CreateFunc: func(ctx context.Context, params client.CreateParams) (*client.Client, error) {
					return &client.Client{
						ID:        1,
						FirstName: params.FirstName,
						LastName:  params.LastName,
						Email:     params.Email,
						Type:      params.Type,
						Status:    params.Status,
					}, nil
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Last Name",
			body:           `{"firstName":"Jane"}`,
			repo:           &MockClientRepo{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed Email",
			body:           `{"firstName":"Jane","lastName":"Doe","email":"not-an-email"}`,
			repo:           &MockClientRepo{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate Email",
			body: `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`,
			repo: &MockClientRepo{
				CreateFunc: func(ctx context.Context, params client.CreateParams) (*client.Client, error) {
					return nil, client.ErrEmailTaken
				},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Invalid Body",
			body:           `{`,
			repo:           &MockClientRepo{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewClientHandler(client.NewService(tt.repo))

			req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.HandleClients(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d (body: %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated {
				var created client.Client
				if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if created.Type != client.TypeIndividual {
					t.Errorf("expected default type %q, got %q", client.TypeIndividual, created.Type)
				}
				if created.Status != client.StatusActive {
					t.Errorf("expected default status %q, got %q", client.StatusActive, created.Status)
				}
			}
		})
	}
}

func TestHandleClientByID(t *testing.T) {
	repo := &MockClientRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*client.Client, error) {
			if id != 7 {
				return nil, client.ErrClientNotFound
			}
			return &client.Client{ID: 7, FirstName: "Jane", LastName: "Doe", Status: client.StatusActive}, nil
		},
	}
	handler := NewClientHandler(client.NewService(repo))

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"Found", "7", http.StatusOK},
		{"Not Found", "8", http.StatusNotFound},
		{"Bad ID", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/clients/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rr := httptest.NewRecorder()

			handler.HandleClientByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleClientByID_Deactivate(t *testing.T) {
	var gotUpdate client.UpdateParams
	repo := &MockClientRepo{
		UpdateFunc: func(ctx context.Context, id int64, params client.UpdateParams) (*client.Client, error) {
			gotUpdate = params
			return &client.Client{ID: id, Status: client.StatusInactive}, nil
		},
	}
	handler := NewClientHandler(client.NewService(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/clients/3", nil)
	req.SetPathValue("id", "3")
	rr := httptest.NewRecorder()

	handler.HandleClientByID(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusNoContent)
	}
	if gotUpdate.Status == nil || *gotUpdate.Status != client.StatusInactive {
		t.Error("expected the client to be moved to inactive")
	}
}

func TestHandleClientByID_Purge(t *testing.T) {
	var deletedID int64
	repo := &MockClientRepo{
		DeleteFunc: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	handler := NewClientHandler(client.NewService(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/clients/7?purge=true", nil)
	req.SetPathValue("id", "7")
	rr := httptest.NewRecorder()

	handler.HandleClientByID(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusNoContent)
	}
	if deletedID != 7 {
		t.Errorf("deleted client %d, want 7", deletedID)
	}
}
