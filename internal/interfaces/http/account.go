package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/client"
	"ledgerdesk/internal/domain/transaction"
)

type AccountHandler struct {
	accounts *account.Service
	executor *transaction.Executor
	// defaultProfile selects the issuing bank profile when a request does
	// not name one.
	defaultProfile string
}

func NewAccountHandler(accounts *account.Service, executor *transaction.Executor, defaultProfile string) *AccountHandler {
	return &AccountHandler{
		accounts:       accounts,
		executor:       executor,
		defaultProfile: defaultProfile,
	}
}

type OpenAccountRequest struct {
	ClientID       int64  `json:"clientId" validate:"required,gt=0"`
	Profile        string `json:"profile"`
	Currency       string `json:"currency" validate:"omitempty,oneof=EUR USD GBP"`
	Kind           string `json:"kind" validate:"omitempty,oneof=current savings business"`
	InitialDeposit string `json:"initialDeposit"`
}

// HandleAccounts searches accounts (GET) or opens a new one (POST)
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleSearch(w, r)
	case http.MethodPost:
		h.handleOpen(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := account.SearchFilters{
		Query: q.Get("q"),
		Kind:  q.Get("kind"),
	}
	if minStr := q.Get("minBalance"); minStr != "" {
		min, err := decimal.NewFromString(minStr)
		if err != nil {
			http.Error(w, "Invalid minBalance", http.StatusBadRequest)
			return
		}
		filters.MinBalance = &min
	}
	if maxStr := q.Get("maxBalance"); maxStr != "" {
		max, err := decimal.NewFromString(maxStr)
		if err != nil {
			http.Error(w, "Invalid maxBalance", http.StatusBadRequest)
			return
		}
		filters.MaxBalance = &max
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filters.Limit = limit
		}
	}

	accounts, err := h.accounts.Search(r.Context(), filters)
	if err != nil {
		if errors.Is(err, account.ErrInvalidInput) || errors.Is(err, account.ErrInvalidKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error searching accounts: %v", err)
		http.Error(w, "Failed to search accounts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if !decodeValid(w, r, &req) {
		return
	}

	var initialDeposit decimal.Decimal
	if req.InitialDeposit != "" {
		var err error
		initialDeposit, err = decimal.NewFromString(req.InitialDeposit)
		if err != nil || initialDeposit.IsNegative() {
			http.Error(w, "Invalid initialDeposit", http.StatusBadRequest)
			return
		}
	}

	profile := req.Profile
	if profile == "" {
		profile = h.defaultProfile
	}

	opened, err := h.accounts.Open(r.Context(), account.OpenParams{
		ClientID:   req.ClientID,
		ProfileKey: profile,
		Currency:   req.Currency,
		Kind:       req.Kind,
	})
	if err != nil {
		switch {
		case errors.Is(err, client.ErrClientNotFound):
			http.Error(w, "Client not found", http.StatusNotFound)
		case errors.Is(err, account.ErrInvalidKind), errors.Is(err, account.ErrInvalidCurrency):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error opening account for client %d: %v", req.ClientID, err)
			http.Error(w, "Failed to open account", http.StatusInternalServerError)
		}
		return
	}

	// The opening deposit is a regular ledger entry so the balance stays
	// equal to the signed sum of the account's transactions.
	if initialDeposit.IsPositive() {
		_, err := h.executor.Execute(r.Context(), transaction.ExecuteParams{
			AccountID:   opened.ID,
			Kind:        transaction.KindDeposit,
			Amount:      initialDeposit,
			Description: "Opening deposit",
		})
		if err != nil {
			log.Printf("Error booking opening deposit for account %d: %v", opened.ID, err)
			http.Error(w, "Account opened but opening deposit failed", http.StatusInternalServerError)
			return
		}
		opened.Balance = initialDeposit
	}

	writeJSON(w, http.StatusCreated, opened)
}

// HandleAccountByID returns a single account
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	acc, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting account %d: %v", id, err)
		http.Error(w, "Failed to get account", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, acc)
}

// HandleAccountByIBAN returns a single account looked up by IBAN
func (h *AccountHandler) HandleAccountByIBAN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	iban := r.PathValue("iban")
	acc, err := h.accounts.GetByIBAN(r.Context(), iban)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountNotFound):
			http.Error(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, account.ErrInvalidInput):
			http.Error(w, "Invalid IBAN", http.StatusBadRequest)
		default:
			log.Printf("Error getting account by IBAN: %v", err)
			http.Error(w, "Failed to get account", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, acc)
}

// HandleClientAccounts lists the accounts owned by a client
func (h *AccountHandler) HandleClientAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}

	accounts, err := h.accounts.ListByClient(r.Context(), clientID)
	if err != nil {
		log.Printf("Error listing accounts for client %d: %v", clientID, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// HandleAccountTransactions lists an account's ledger entries, most recent
// first
func (h *AccountHandler) HandleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	entries, err := h.executor.History(r.Context(), id, limit)
	if err != nil {
		log.Printf("Error listing transactions for account %d: %v", id, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
