package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"ledgerdesk/internal/domain/client"
)

type ClientHandler struct {
	clients *client.Service
}

func NewClientHandler(clients *client.Service) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type CreateClientRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Type      string `json:"type" validate:"omitempty,oneof=individual business association"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive pending"`
}

type UpdateClientRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Type      *string `json:"type" validate:"omitempty,oneof=individual business association"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive pending"`
}

// HandleClients lists clients (GET) or registers a new one (POST)
func (h *ClientHandler) HandleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleRegister(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ClientHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := client.SearchFilters{
		Query:  q.Get("q"),
		Type:   q.Get("type"),
		Status: q.Get("status"),
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filters.Limit = limit
		}
	}

	clients, err := h.clients.List(r.Context(), filters)
	if err != nil {
		if errors.Is(err, client.ErrInvalidType) || errors.Is(err, client.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error listing clients: %v", err)
		http.Error(w, "Failed to list clients", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if !decodeValid(w, r, &req) {
		return
	}

	created, err := h.clients.Register(r.Context(), client.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Type:      req.Type,
		Status:    req.Status,
	})
	if err != nil {
		if errors.Is(err, client.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		if errors.Is(err, client.ErrInvalidType) || errors.Is(err, client.ErrInvalidStatus) || errors.Is(err, client.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error registering client: %v", err)
		http.Error(w, "Failed to register client", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleClientByID handles GET, PATCH/PUT and DELETE for a single client.
// DELETE deactivates by default; with ?purge=true the record is removed
// together with its accounts and transactions.
func (h *ClientHandler) HandleClientByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPatch, http.MethodPut:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		if r.URL.Query().Get("purge") == "true" {
			h.handlePurge(w, r, id)
			return
		}
		h.handleDeactivate(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ClientHandler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	c, err := h.clients.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting client %d: %v", id, err)
		http.Error(w, "Failed to get client", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *ClientHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateClientRequest
	if !decodeValid(w, r, &req) {
		return
	}

	updated, err := h.clients.Update(r.Context(), id, client.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Type:      req.Type,
		Status:    req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, client.ErrClientNotFound):
			http.Error(w, "Client not found", http.StatusNotFound)
		case errors.Is(err, client.ErrEmailTaken):
			http.Error(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, client.ErrInvalidType), errors.Is(err, client.ErrInvalidStatus), errors.Is(err, client.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error updating client %d: %v", id, err)
			http.Error(w, "Failed to update client", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ClientHandler) handleDeactivate(w http.ResponseWriter, r *http.Request, id int64) {
	if _, err := h.clients.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deactivating client %d: %v", id, err)
		http.Error(w, "Failed to deactivate client", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) handlePurge(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.clients.Delete(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting client %d: %v", id, err)
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
