package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"ledgerdesk/internal/domain/report"
)

type ReportHandler struct {
	reports *report.Service
}

func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleOverview returns the dashboard headline figures
func (h *ReportHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	overview, err := h.reports.Overview(r.Context())
	if err != nil {
		log.Printf("Error building overview: %v", err)
		http.Error(w, "Failed to build overview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// HandleWeeklyTotals returns per-day deposit and withdrawal sums for the
// last seven days
func (h *ReportHandler) HandleWeeklyTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	totals, err := h.reports.WeeklyTotals(r.Context())
	if err != nil {
		log.Printf("Error building weekly totals: %v", err)
		http.Error(w, "Failed to build weekly totals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// HandleClientsByType returns client counts per category
func (h *ReportHandler) HandleClientsByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := h.reports.ClientsByType(r.Context())
	if err != nil {
		log.Printf("Error counting clients by type: %v", err)
		http.Error(w, "Failed to count clients", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// HandleRecentTransactions returns the most recent ledger entries with
// holder details
func (h *ReportHandler) HandleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	recent, err := h.reports.RecentTransactions(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing recent transactions: %v", err)
		http.Error(w, "Failed to list recent transactions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, recent)
}

// HandleSearchTransactions searches ledger entries by holder, IBAN,
// description, kind and date range
func (h *ReportHandler) HandleSearchTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filters := report.SearchFilters{
		Query: q.Get("q"),
		Kind:  q.Get("kind"),
	}
	if fromStr := q.Get("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			http.Error(w, "Invalid from date (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		filters.From = from
	}
	if toStr := q.Get("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			http.Error(w, "Invalid to date (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		filters.To = to
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			filters.Limit = parsed
		}
	}

	results, err := h.reports.SearchTransactions(r.Context(), filters)
	if err != nil {
		if errors.Is(err, report.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error searching transactions: %v", err)
		http.Error(w, "Failed to search transactions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
