package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/alert"
	"ledgerdesk/internal/domain/attestation"
	"ledgerdesk/internal/domain/client"
	"ledgerdesk/internal/domain/iban"
	"ledgerdesk/internal/domain/report"
	"ledgerdesk/internal/domain/transaction"
	"ledgerdesk/internal/domain/user"
	"ledgerdesk/internal/infrastructure/crypto"
	"ledgerdesk/internal/infrastructure/firebase"
	"ledgerdesk/internal/infrastructure/postgres"
	"ledgerdesk/internal/infrastructure/postgres/listener"
	httphandlers "ledgerdesk/internal/interfaces/http"
	"ledgerdesk/internal/shared/auth"
	"ledgerdesk/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	ClientHandler      *httphandlers.ClientHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	ReportHandler      *httphandlers.ReportHandler
	AttestationHandler *httphandlers.AttestationHandler
	DocumentHandler    *httphandlers.DocumentHandler
	AlertHandler       *httphandlers.AlertHandler

	// Auth
	JWT *auth.JWT

	// Services needed outside the HTTP layer
	AttestationService *attestation.Service
	AlertService       *alert.Service

	// Listener bridges committed ledger entries to the alert service.
	Listener *listener.TransactionListener
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString(), cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor for client PII columns
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	clientRepo := postgres.NewClientRepository(db, encryptor)
	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	userRepo := postgres.NewUserRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	attestationRepo := postgres.NewAttestationRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	// Initialize domain services
	clientService := client.NewService(clientRepo)
	accountService := account.NewService(accountRepo, clientRepo, iban.NewGenerator(nil))
	executor := transaction.NewExecutor(ledgerRepo)
	reportService := report.NewService(reportRepo)
	attestationService := attestation.NewService(attestationRepo)

	jwt := auth.NewJWT(cfg.JWT.Secret)
	userService := user.NewService(userRepo, jwt)

	// Initialize the push messenger when Firebase credentials are configured.
	// Alerts degrade to the in-app feed without one.
	var messenger alert.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fbClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, alertRepo.DeactivateDeviceToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase messaging: %v", err)
		} else {
			messenger = fbClient
			log.Println("Firebase messaging initialized")
		}
	} else {
		log.Println("Firebase messaging disabled (no credentials file)")
	}

	threshold, err := decimal.NewFromString(cfg.Alerts.LargeTransactionThreshold)
	if err != nil {
		db.Close()
		return nil, err
	}

	alertService := alert.NewService(alertRepo, messenger, threshold)

	txListener := listener.NewTransactionListener(cfg.Database.ConnectionString(), alertService, accountRepo)

	defaultProfile := cfg.Bank.DefaultProfile
	if defaultProfile == "" {
		defaultProfile = iban.DefaultProfileKey
	}

	// Initialize handlers
	return &Dependencies{
		DB:                 db,
		AuthHandler:        httphandlers.NewAuthHandler(userService),
		UserHandler:        httphandlers.NewUserHandler(userService),
		ClientHandler:      httphandlers.NewClientHandler(clientService),
		AccountHandler:     httphandlers.NewAccountHandler(accountService, executor, defaultProfile),
		TransactionHandler: httphandlers.NewTransactionHandler(executor),
		ReportHandler:      httphandlers.NewReportHandler(reportService),
		AttestationHandler: httphandlers.NewAttestationHandler(attestationService, accountService, clientService),
		DocumentHandler:    httphandlers.NewDocumentHandler(executor, accountService, clientService, attestationService, cfg.Bank.Name),
		AlertHandler:       httphandlers.NewAlertHandler(alertService),
		JWT:                jwt,
		AttestationService: attestationService,
		AlertService:       alertService,
		Listener:           txListener,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Listener != nil {
		d.Listener.Stop()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
