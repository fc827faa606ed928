package http

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"ledgerdesk/internal/document"
	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/attestation"
	"ledgerdesk/internal/domain/client"
	"ledgerdesk/internal/domain/transaction"
)

// statementFetchLimit bounds how far back a statement can reach.
const statementFetchLimit = 500

type DocumentHandler struct {
	executor     *transaction.Executor
	accounts     *account.Service
	clients      *client.Service
	attestations *attestation.Service
	// bankName labels attestation PDFs, which carry no account reference
	// of their own.
	bankName string
}

func NewDocumentHandler(executor *transaction.Executor, accounts *account.Service, clients *client.Service, attestations *attestation.Service, bankName string) *DocumentHandler {
	return &DocumentHandler{
		executor:     executor,
		accounts:     accounts,
		clients:      clients,
		attestations: attestations,
		bankName:     bankName,
	}
}

// HandleReceipt renders the receipt PDF for a booked transaction
func (h *DocumentHandler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("Error getting transaction %s for receipt: %v", reference, err)
		http.Error(w, "Failed to get transaction", http.StatusInternalServerError)
		return
	}

	acc, err := h.accounts.Get(r.Context(), booked.AccountID)
	if err != nil {
		log.Printf("Error getting account %d for receipt: %v", booked.AccountID, err)
		http.Error(w, "Failed to get account", http.StatusInternalServerError)
		return
	}
	holder, err := h.clients.Get(r.Context(), acc.ClientID)
	if err != nil {
		log.Printf("Error getting client %d for receipt: %v", acc.ClientID, err)
		http.Error(w, "Failed to get account holder", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = document.Receipt(&buf, document.ReceiptData{
		Reference:   booked.Reference,
		Date:        booked.CreatedAt,
		Kind:        booked.Kind,
		Amount:      booked.Amount,
		Currency:    acc.Currency,
		Description: booked.Description,
		IBAN:        acc.IBAN,
		BankName:    acc.BankName,
		BIC:         acc.BIC,
		ClientName:  holder.FirstName + " " + holder.LastName,
		ClientEmail: holder.Email,
	}, document.ReceiptOptions{SignatureLine: true})
	if err != nil {
		log.Printf("Error rendering receipt %s: %v", reference, err)
		http.Error(w, "Failed to render receipt", http.StatusInternalServerError)
		return
	}

	servePDF(w, fmt.Sprintf("receipt-%s.pdf", booked.Reference), buf.Bytes())
}

// HandleStatement renders an account statement PDF for a period. Defaults
// to the last 30 days when no range is given.
func (h *DocumentHandler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now
	q := r.URL.Query()
	if fromStr := q.Get("from"); fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			http.Error(w, "Invalid from date (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
	}
	if toStr := q.Get("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			http.Error(w, "Invalid to date (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if to.Before(from) {
		http.Error(w, "to must not be before from", http.StatusBadRequest)
		return
	}

	acc, err := h.accounts.Get(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting account %d for statement: %v", accountID, err)
		http.Error(w, "Failed to get account", http.StatusInternalServerError)
		return
	}
	holder, err := h.clients.Get(r.Context(), acc.ClientID)
	if err != nil {
		log.Printf("Error getting client %d for statement: %v", acc.ClientID, err)
		http.Error(w, "Failed to get account holder", http.StatusInternalServerError)
		return
	}

	history, err := h.executor.History(r.Context(), accountID, statementFetchLimit)
	if err != nil {
		log.Printf("Error listing transactions for statement of account %d: %v", accountID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	// History is most recent first. Walk back from the current balance to
	// derive the closing and opening balances of the period, collecting the
	// entries inside it oldest first.
	closing := acc.Balance
	opening := acc.Balance
	var entries []document.StatementEntry
	for _, entry := range history {
		signed := entry.SignedAmount()
		switch {
		case entry.CreatedAt.After(to):
			closing = closing.Sub(signed)
			opening = opening.Sub(signed)
		case entry.CreatedAt.Before(from):
			// Older than the period, balances already settled
		default:
			opening = opening.Sub(signed)
			entries = append([]document.StatementEntry{{
				Date:        entry.CreatedAt,
				Kind:        entry.Kind,
				Description: entry.Description,
				Amount:      signed,
			}}, entries...)
		}
	}

	var buf bytes.Buffer
	err = document.Statement(&buf, document.StatementData{
		HolderName:     holder.FirstName + " " + holder.LastName,
		IBAN:           acc.IBAN,
		BIC:            acc.BIC,
		BankName:       acc.BankName,
		Currency:       acc.Currency,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Entries:        entries,
	})
	if err != nil {
		log.Printf("Error rendering statement for account %d: %v", accountID, err)
		http.Error(w, "Failed to render statement", http.StatusInternalServerError)
		return
	}

	servePDF(w, fmt.Sprintf("statement-%s.pdf", acc.IBAN), buf.Bytes())
}

// HandleAttestationDocument renders the PDF for an issued attestation
func (h *DocumentHandler) HandleAttestationDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reference := r.PathValue("reference")
	att, err := h.attestations.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, attestation.ErrAttestationNotFound) {
			http.Error(w, "Attestation not found", http.StatusNotFound)
			return
		}
		log.Printf("Error getting attestation %s: %v", reference, err)
		http.Error(w, "Failed to get attestation", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = document.Attestation(&buf, document.AttestationData{
		Reference: att.Reference,
		FullName:  att.FullName,
		IBAN:      att.IBAN,
		BIC:       att.BIC,
		BankName:  h.bankName,
		Amount:    att.Amount,
		Currency:  "EUR",
		Comments:  att.Comments,
		IssuedAt:  att.IssuedAt,
		ExpiresAt: att.ExpiresAt,
	})
	if err != nil {
		log.Printf("Error rendering attestation %s: %v", reference, err)
		http.Error(w, "Failed to render attestation", http.StatusInternalServerError)
		return
	}

	servePDF(w, fmt.Sprintf("attestation-%s.pdf", att.Reference), buf.Bytes())
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
