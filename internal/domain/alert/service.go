package alert

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// Service contains the business logic for alert operations. It watches the
// committed ledger feed and pushes alerts to operator devices when a
// transaction crosses the configured threshold.
type Service struct {
	repo      Repository
	messenger Messenger
	threshold decimal.Decimal
}

// NewService creates a new alert service. A nil messenger disables push
// delivery; alert records are still stored for the dashboard feed.
func NewService(repo Repository, messenger Messenger, threshold decimal.Decimal) *Service {
	return &Service{repo: repo, messenger: messenger, threshold: threshold}
}

// RegisterDevice registers a device token for an operator.
// If the token already belongs to another operator, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertDeviceToken(ctx, params)
}

// UnregisterDevice deactivates a device token
func (s *Service) UnregisterDevice(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	return s.repo.DeactivateDeviceToken(ctx, token)
}

// Feed returns recent alert records, most recent first
func (s *Service) Feed(ctx context.Context, limit int) ([]*Alert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListAlerts(ctx, limit)
}

// TransactionCommitted inspects a committed ledger entry and raises a
// large-transaction alert when the amount reaches the threshold. Delivery
// failures are logged, never propagated; alerting must not fail the caller.
func (s *Service) TransactionCommitted(ctx context.Context, reference, kind, iban string, amount decimal.Decimal) {
	if s.threshold.IsZero() || amount.LessThan(s.threshold) {
		return
	}

	title := "Large transaction"
	body := fmt.Sprintf("%s of %s on %s", kind, amount, iban)
	data := map[string]string{
		"reference": reference,
		"kind":      kind,
		"iban":      iban,
		"amount":    amount.String(),
	}

	s.Raise(ctx, CreateAlertParams{
		Title:    title,
		Message:  body,
		Category: CategoryLargeTransaction,
		Data:     data,
	})
}

// Raise stores an alert record and pushes it to all active operator devices.
func (s *Service) Raise(ctx context.Context, params CreateAlertParams) {
	if err := params.Validate(); err != nil {
		log.Printf("Dropping malformed alert: %v", err)
		return
	}

	if _, err := s.repo.CreateAlert(ctx, params); err != nil {
		log.Printf("Error storing alert %q: %v", params.Title, err)
	}

	if s.messenger == nil {
		return
	}

	tokens, err := s.repo.ActiveTokens(ctx)
	if err != nil {
		log.Printf("Error loading device tokens: %v", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}
	if err := s.messenger.SendMulticast(ctx, tokenStrings, params.Title, params.Message, params.Data); err != nil {
		log.Printf("Error pushing alert %q: %v", params.Title, err)
	}
}
