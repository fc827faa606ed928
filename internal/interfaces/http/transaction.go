package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/transaction"
)

type TransactionHandler struct {
	executor *transaction.Executor
}

func NewTransactionHandler(executor *transaction.Executor) *TransactionHandler {
	return &TransactionHandler{executor: executor}
}

type ExecuteTransactionRequest struct {
	AccountID   int64  `json:"accountId" validate:"required,gt=0"`
	Kind        string `json:"kind" validate:"required,oneof=deposit withdrawal direct_debit"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

type TransferRequest struct {
	FromAccountID int64  `json:"fromAccountId" validate:"required,gt=0"`
	ToAccountID   int64  `json:"toAccountId" validate:"required,gt=0"`
	Amount        string `json:"amount" validate:"required"`
	Description   string `json:"description"`
}

type TransferResponse struct {
	Debit  *transaction.Transaction `json:"debit"`
	Credit *transaction.Transaction `json:"credit"`
}

// HandleExecute books a deposit, withdrawal or direct debit
func (h *TransactionHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExecuteTransactionRequest
	if !decodeValid(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	booked, err := h.executor.Execute(r.Context(), transaction.ExecuteParams{
		AccountID:   req.AccountID,
		Kind:        req.Kind,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booked)
}

// HandleTransfer moves funds between two accounts atomically
func (h *TransactionHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TransferRequest
	if !decodeValid(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	debit, credit, err := h.executor.Transfer(r.Context(), transaction.TransferParams{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Description:   req.Description,
	})
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, TransferResponse{Debit: debit, Credit: credit})
}

// HandleTransactionByReference returns the entries booked under a reference
func (h *TransactionHandler) HandleTransactionByReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reference := r.PathValue("reference")
	booked, err := h.executor.Get(r.Context(), reference)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting transaction %s: %v", reference, err)
		http.Error(w, "Failed to get transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, booked)
}

func writeTransactionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrInsufficientFunds):
		http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidKind),
		errors.Is(err, transaction.ErrSameAccount),
		errors.Is(err, transaction.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Error executing transaction: %v", err)
		http.Error(w, "Failed to execute transaction", http.StatusInternalServerError)
	}
}
