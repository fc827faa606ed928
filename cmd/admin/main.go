package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain/account"
	"ledgerdesk/internal/domain/attestation"
	"ledgerdesk/internal/domain/client"
	"ledgerdesk/internal/domain/iban"
	"ledgerdesk/internal/domain/transaction"
	"ledgerdesk/internal/domain/user"
	"ledgerdesk/internal/infrastructure/crypto"
	"ledgerdesk/internal/infrastructure/postgres"
	"ledgerdesk/internal/shared/auth"
	"ledgerdesk/internal/shared/config"
)

const usage = `LedgerDesk Admin CLI - Management commands for the LedgerDesk API

Usage:
  admin <command> [options]

Commands:
  migrate               Apply pending database migrations
  migrate-down          Roll back all database migrations
  create-user           Create an operator account
  expire-attestations   Expire issued attestations past their expiry date
  seed                  Insert demo clients, accounts and transactions

Examples:
  admin migrate

  # Create an admin operator
  admin create-user --email=ops@bank.example --name="Back Office" --role=admin --password=changeme1

  # Sweep overdue attestations once, outside the scheduler
  admin expire-attestations

  # Populate a fresh database with demo data
  admin seed
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate()
	case "migrate-down":
		runMigrateDown()
	case "create-user":
		runCreateUser(os.Args[2:])
	case "expire-attestations":
		runExpireAttestations(os.Args[2:])
	case "seed":
		runSeed(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

// connect loads configuration and opens the database.
func connect() (*config.Config, *postgres.DB) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	return cfg, db
}

func runMigrate() {
	_, db := connect()
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")
}

func runMigrateDown() {
	_, db := connect()
	defer db.Close()

	if err := postgres.MigrateDown(db); err != nil {
		log.Fatalf("Rollback failed: %v", err)
	}
	log.Println("Migrations rolled back")
}

func runCreateUser(args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	email := fs.String("email", "", "Operator email (required)")
	name := fs.String("name", "", "Operator display name (required)")
	role := fs.String("role", user.RoleOperator, "Role: admin or operator")
	password := fs.String("password", "", "Initial password (required, min 8 chars)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *email == "" || *name == "" || *password == "" {
		fmt.Println("Error: --email, --name and --password are required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, db := connect()
	defer db.Close()

	users := user.NewService(postgres.NewUserRepository(db), auth.NewJWT(cfg.JWT.Secret))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := users.Create(ctx, *email, *name, *role, *password)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created %s user %d (%s)\n", created.Role, created.ID, created.Email)
}

func runExpireAttestations(args []string) {
	fs := flag.NewFlagSet("expire-attestations", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "5m", "Timeout for the operation (e.g., 30s, 5m)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	_, db := connect()
	defer db.Close()

	attestations := attestation.NewService(postgres.NewAttestationRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := attestations.ExpireOverdue(ctx)
	if err != nil {
		log.Fatalf("Attestation expiry failed: %v", err)
	}

	fmt.Printf("Expired %d attestation(s)\n", n)
}

// seedClient describes one demo client with an account and an opening deposit.
type seedClient struct {
	firstName  string
	lastName   string
	email      string
	phone      string
	clientType string
	kind       string
	deposit    string
}

var seedClients = []seedClient{
	{"Amelie", "Fontaine", "amelie.fontaine@example.com", "+33612345678", client.TypeIndividual, account.KindCurrent, "2500.00"},
	{"Bruno", "Kessler", "bruno.kessler@example.com", "+33698765432", client.TypeIndividual, account.KindSavings, "14000.00"},
	{"Atelier", "Dubois", "contact@atelier-dubois.example.com", "+33145002211", client.TypeBusiness, account.KindBusiness, "83000.00"},
	{"Les Amis", "du Quartier", "tresorier@amisduquartier.example.org", "", client.TypeAssociation, account.KindCurrent, "1200.00"},
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "2m", "Timeout for the operation")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, db := connect()
	defer db.Close()

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatalf("Failed to create encryptor: %v", err)
	}

	clientRepo := postgres.NewClientRepository(db, encryptor)
	accountRepo := postgres.NewAccountRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	clients := client.NewService(clientRepo)
	accounts := account.NewService(accountRepo, clientRepo, iban.NewGenerator(nil))
	executor := transaction.NewExecutor(ledgerRepo)

	profile := cfg.Bank.DefaultProfile
	if profile == "" {
		profile = iban.DefaultProfileKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, sc := range seedClients {
		c, err := clients.Register(ctx, client.CreateParams{
			FirstName: sc.firstName,
			LastName:  sc.lastName,
			Email:     sc.email,
			Phone:     sc.phone,
			Type:      sc.clientType,
		})
		if err != nil {
			log.Fatalf("Failed to register client %s: %v", sc.email, err)
		}

		acc, err := accounts.Open(ctx, account.OpenParams{
			ClientID:   c.ID,
			ProfileKey: profile,
			Kind:       sc.kind,
		})
		if err != nil {
			log.Fatalf("Failed to open account for client %d: %v", c.ID, err)
		}

		amount, err := decimal.NewFromString(sc.deposit)
		if err != nil {
			log.Fatalf("Invalid seed deposit %q: %v", sc.deposit, err)
		}

		if _, err := executor.Execute(ctx, transaction.ExecuteParams{
			AccountID:   acc.ID,
			Kind:        transaction.KindDeposit,
			Amount:      amount,
			Description: "Opening deposit",
		}); err != nil {
			log.Fatalf("Failed to book opening deposit for account %d: %v", acc.ID, err)
		}

		fmt.Printf("Seeded client %d (%s %s) with account %s\n", c.ID, c.FirstName, c.LastName, acc.IBAN)
	}

	log.Println("Seed complete")
}
