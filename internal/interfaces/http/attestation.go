package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/attestation"
	"ledgerdesk/internal/domain/client"
)

type AttestationHandler struct {
	attestations *attestation.Service
	accounts     *account.Service
	clients      *client.Service
}

func NewAttestationHandler(attestations *attestation.Service, accounts *account.Service, clients *client.Service) *AttestationHandler {
	return &AttestationHandler{
		attestations: attestations,
		accounts:     accounts,
		clients:      clients,
	}
}

// IssueAttestationRequest issues an attestation either from explicit
// holder details or, when accountId is set, prefilled from the account's
// current state.
type IssueAttestationRequest struct {
	AccountID int64  `json:"accountId"`
	FullName  string `json:"fullName"`
	IBAN      string `json:"iban"`
	BIC       string `json:"bic"`
	Amount    string `json:"amount"`
	Comments  string `json:"comments"`
	ExpiresAt string `json:"expiresAt"` // YYYY-MM-DD, empty for the default validity
	Draft     bool   `json:"draft"`
}

// UpdateAttestationStatusRequest moves an attestation through its lifecycle.
type UpdateAttestationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleAttestations lists attestations (GET) or issues a new one (POST)
func (h *AttestationHandler) HandleAttestations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleIssue(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AttestationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if iban := q.Get("iban"); iban != "" {
		list, err := h.attestations.ListByIBAN(r.Context(), iban)
		if err != nil {
			log.Printf("Error listing attestations for IBAN: %v", err)
			http.Error(w, "Failed to list attestations", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	limit := 0
	if limitStr := q.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	list, err := h.attestations.List(r.Context(), q.Get("status"), limit)
	if err != nil {
		if errors.Is(err, attestation.ErrInvalidStatus) {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
		log.Printf("Error listing attestations: %v", err)
		http.Error(w, "Failed to list attestations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *AttestationHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req IssueAttestationRequest
	if !decodeValid(w, r, &req) {
		return
	}

	params := attestation.IssueParams{
		FullName: req.FullName,
		IBAN:     req.IBAN,
		BIC:      req.BIC,
		Comments: req.Comments,
		Draft:    req.Draft,
	}

	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			http.Error(w, "Invalid amount", http.StatusBadRequest)
			return
		}
		params.Amount = amount
	}

	if req.ExpiresAt != "" {
		expires, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			http.Error(w, "Invalid expiresAt (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		params.ExpiresAt = expires
	}

	// Prefill holder details and the attested amount from the account when
	// one is referenced.
	if req.AccountID > 0 {
		acc, err := h.accounts.Get(r.Context(), req.AccountID)
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound) {
				http.Error(w, "Account not found", http.StatusNotFound)
				return
			}
			log.Printf("Error resolving account %d for attestation: %v", req.AccountID, err)
			http.Error(w, "Failed to resolve account", http.StatusInternalServerError)
			return
		}
		holder, err := h.clients.Get(r.Context(), acc.ClientID)
		if err != nil {
			log.Printf("Error resolving client %d for attestation: %v", acc.ClientID, err)
			http.Error(w, "Failed to resolve account holder", http.StatusInternalServerError)
			return
		}

		params.IBAN = acc.IBAN
		params.BIC = acc.BIC
		if params.FullName == "" {
			params.FullName = holder.FirstName + " " + holder.LastName
		}
		if req.Amount == "" {
			params.Amount = acc.Balance
		}
	}

	issued, err := h.attestations.Issue(r.Context(), params)
	if err != nil {
		if errors.Is(err, attestation.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error issuing attestation: %v", err)
		http.Error(w, "Failed to issue attestation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, issued)
}

// HandleAttestationByID returns a single attestation (GET) or moves it
// through its status lifecycle (PATCH)
func (h *AttestationHandler) HandleAttestationByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid attestation ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPatch:
		h.handleUpdateStatus(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AttestationHandler) handleGet(w http.ResponseWriter, r *http.Request, id int64) {
	att, err := h.attestations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, attestation.ErrAttestationNotFound) {
			http.Error(w, "Attestation not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting attestation %d: %v", id, err)
		http.Error(w, "Failed to get attestation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, att)
}

func (h *AttestationHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateAttestationStatusRequest
	if !decodeValid(w, r, &req) {
		return
	}

	updated, err := h.attestations.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, attestation.ErrAttestationNotFound):
			http.Error(w, "Attestation not found", http.StatusNotFound)
		case errors.Is(err, attestation.ErrInvalidStatus):
			http.Error(w, "Invalid status", http.StatusBadRequest)
		case errors.Is(err, attestation.ErrIllegalTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error updating attestation %d status: %v", id, err)
			http.Error(w, "Failed to update attestation", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleRevoke revokes an issued attestation
func (h *AttestationHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid attestation ID", http.StatusBadRequest)
		return
	}

	revoked, err := h.attestations.Revoke(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, attestation.ErrAttestationNotFound):
			http.Error(w, "Attestation not found", http.StatusNotFound)
		case errors.Is(err, attestation.ErrNotIssued):
			http.Error(w, "Only issued attestations can be revoked", http.StatusConflict)
		default:
			log.Printf("Error revoking attestation %d: %v", id, err)
			http.Error(w, "Failed to revoke attestation", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, revoked)
}
