package main

import (
	"log"
	"net/http"

	httphandlers "ledgerdesk/internal/interfaces/http"
	"ledgerdesk/internal/shared/config"
	"ledgerdesk/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	adminOnly := middleware.RequireRole("admin")

	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(adminOnly(h))
	}

	// Clients
	mux.Handle("/api/clients", protected(deps.ClientHandler.HandleClients))
	mux.Handle("/api/clients/{id}", protected(deps.ClientHandler.HandleClientByID))
	mux.Handle("/api/clients/{id}/accounts", protected(deps.AccountHandler.HandleClientAccounts))

	// Accounts
	mux.Handle("/api/accounts", protected(deps.AccountHandler.HandleAccounts))
	mux.Handle("/api/accounts/{id}", protected(deps.AccountHandler.HandleAccountByID))
	mux.Handle("/api/accounts/{id}/transactions", protected(deps.AccountHandler.HandleAccountTransactions))
	mux.Handle("/api/accounts/iban/{iban}", protected(deps.AccountHandler.HandleAccountByIBAN))

	// Transactions
	mux.Handle("/api/transactions", protected(deps.TransactionHandler.HandleExecute))
	mux.Handle("/api/transactions/{reference}", protected(deps.TransactionHandler.HandleTransactionByReference))
	mux.Handle("/api/transfers", protected(deps.TransactionHandler.HandleTransfer))

	// Reports
	mux.Handle("/api/reports/overview", protected(deps.ReportHandler.HandleOverview))
	mux.Handle("/api/reports/weekly-totals", protected(deps.ReportHandler.HandleWeeklyTotals))
	mux.Handle("/api/reports/clients-by-type", protected(deps.ReportHandler.HandleClientsByType))
	mux.Handle("/api/reports/recent-transactions", protected(deps.ReportHandler.HandleRecentTransactions))
	mux.Handle("/api/reports/transactions", protected(deps.ReportHandler.HandleSearchTransactions))

	// Attestations
	mux.Handle("/api/attestations", protected(deps.AttestationHandler.HandleAttestations))
	mux.Handle("/api/attestations/{id}", protected(deps.AttestationHandler.HandleAttestationByID))
	mux.Handle("/api/attestations/{id}/revoke", protected(deps.AttestationHandler.HandleRevoke))

	// PDF documents
	mux.Handle("/api/documents/receipt/{reference}", protected(deps.DocumentHandler.HandleReceipt))
	mux.Handle("/api/documents/statement/{id}", protected(deps.DocumentHandler.HandleStatement))
	mux.Handle("/api/documents/attestation/{reference}", protected(deps.DocumentHandler.HandleAttestationDocument))

	// Alerts and device tokens
	mux.Handle("/api/alerts", protected(deps.AlertHandler.HandleFeed))
	mux.Handle("/api/alerts/devices", protected(deps.AlertHandler.HandleRegisterDevice))
	mux.Handle("/api/alerts/devices/{token}", protected(deps.AlertHandler.HandleUnregisterDevice))

	// Operators
	mux.Handle("/api/users/me", protected(deps.UserHandler.HandleMe))
	mux.Handle("/api/users/me/password", protected(deps.UserHandler.HandleChangePassword))
	mux.Handle("/api/users", admin(deps.UserHandler.HandleUsers))
	mux.Handle("/api/users/{id}/active", admin(deps.UserHandler.HandleSetActive))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	// Apply telemetry middleware when enabled. Tracing records per-route
	// spans and metrics inside the otelhttp server span.
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
