// Package listener consumes PostgreSQL LISTEN/NOTIFY feeds. Notifications
// fire on commit, so consumers only ever see committed ledger entries.
package listener

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"ledgerdesk/internal/domain/alert"
	"ledgerdesk/internal/domain/transaction"
)

const (
	channelName       = "transaction_events"
	reconnectInterval = 5 * time.Second
)

// TransactionNotification is the payload emitted by the transactions trigger
type TransactionNotification struct {
	Reference string `json:"reference"`
	AccountID int64  `json:"account_id"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
}

// accountResolver looks up the IBAN behind a committed entry.
type accountResolver interface {
	QueryRowIBAN(ctx context.Context, accountID int64) (string, error)
}

// TransactionListener feeds committed ledger entries to the alert service
type TransactionListener struct {
	connStr    string
	alerts     *alert.Service
	resolver   accountResolver
	shutdownCh chan struct{}
	done       chan struct{}
}

// NewTransactionListener creates a listener for committed transaction events
func NewTransactionListener(connStr string, alerts *alert.Service, resolver accountResolver) *TransactionListener {
	return &TransactionListener{
		connStr:    connStr,
		alerts:     alerts,
		resolver:   resolver,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening for notifications in a background goroutine
func (l *TransactionListener) Start(ctx context.Context) {
	go l.listen(ctx)
	log.Println("Transaction event listener started")
}

// Stop gracefully shuts down the listener
func (l *TransactionListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	log.Println("Transaction event listener stopped")
}

func (l *TransactionListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		// Wait before reconnecting
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			log.Println("Reconnecting to PostgreSQL for notifications...")
		}
	}
}

func (l *TransactionListener) connectAndListen(ctx context.Context) {
	// Create a dedicated listener connection
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("Listener error: %v", err)
		}
		switch ev {
		case pq.ListenerEventConnected:
			log.Println("Connected to PostgreSQL notification channel")
		case pq.ListenerEventDisconnected:
			log.Println("Disconnected from PostgreSQL notification channel")
		case pq.ListenerEventReconnected:
			log.Println("Reconnected to PostgreSQL notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Printf("Connection attempt failed: %v", err)
		}
	})

	defer listener.Close()

	if err := listener.Listen(channelName); err != nil {
		log.Printf("Failed to listen on channel %s: %v", channelName, err)
		return
	}

	log.Printf("Listening on channel: %s", channelName)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case notification := <-listener.Notify:
			if notification == nil {
				// Connection lost, break to reconnect
				return
			}
			l.handleNotification(notification)
		case <-time.After(90 * time.Second):
			// Ping to keep connection alive
			go func() {
				if err := listener.Ping(); err != nil {
					log.Printf("Listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *TransactionListener) handleNotification(notification *pq.Notification) {
	var payload TransactionNotification
	if err := json.Unmarshal([]byte(notification.Extra), &payload); err != nil {
		log.Printf("Failed to parse notification payload: %v", err)
		return
	}

	// Use background context since parent ctx may be cancelled during shutdown
	go l.raiseAlert(context.Background(), payload)
}

func (l *TransactionListener) raiseAlert(ctx context.Context, payload TransactionNotification) {
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		log.Printf("Bad amount %q in notification for %s: %v", payload.Amount, payload.Reference, err)
		return
	}

	if !transaction.IsValidKind(payload.Kind) {
		log.Printf("Unknown kind %q in notification for %s", payload.Kind, payload.Reference)
		return
	}

	iban := ""
	if l.resolver != nil {
		iban, err = l.resolver.QueryRowIBAN(ctx, payload.AccountID)
		if err != nil {
			log.Printf("Could not resolve IBAN for account %d: %v", payload.AccountID, err)
		}
	}

	l.alerts.TransactionCommitted(ctx, payload.Reference, payload.Kind, iban, amount)
}
