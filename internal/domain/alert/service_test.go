package alert

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockAlertRepo struct {
	tokens []*DeviceToken
	alerts []*Alert
}

func (m *mockAlertRepo) UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	t := &DeviceToken{
		ID: "dt-1", UserID: params.UserID, Token: params.Token,
		DeviceType: params.DeviceType, IsActive: true, CreatedAt: time.Now(),
	}
	m.tokens = append(m.tokens, t)
	return t, nil
}

func (m *mockAlertRepo) DeactivateDeviceToken(ctx context.Context, token string) error {
	for _, t := range m.tokens {
		if t.Token == token {
			t.IsActive = false
			return nil
		}
	}
	return ErrDeviceTokenNotFound
}

func (m *mockAlertRepo) ActiveTokens(ctx context.Context) ([]*DeviceToken, error) {
	var out []*DeviceToken
	for _, t := range m.tokens {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockAlertRepo) CreateAlert(ctx context.Context, params CreateAlertParams) (*Alert, error) {
	a := &Alert{
		ID: "a-1", Title: params.Title, Message: params.Message,
		Category: params.Category, Data: params.Data, CreatedAt: time.Now(),
	}
	m.alerts = append(m.alerts, a)
	return a, nil
}

func (m *mockAlertRepo) ListAlerts(ctx context.Context, limit int) ([]*Alert, error) {
	if len(m.alerts) > limit {
		return m.alerts[:limit], nil
	}
	return m.alerts, nil
}

type mockMessenger struct {
	sent      int
	lastBatch []string
}

func (m *mockMessenger) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	m.sent++
	return nil
}

func (m *mockMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	m.sent++
	m.lastBatch = tokens
	return nil
}

func TestTransactionCommitted_BelowThreshold(t *testing.T) {
	repo := &mockAlertRepo{}
	messenger := &mockMessenger{}
	service := NewService(repo, messenger, decimal.NewFromInt(10000))

	service.TransactionCommitted(context.Background(), "ref-1", "deposit", "FR76...", decimal.NewFromInt(500))

	if len(repo.alerts) != 0 {
		t.Errorf("expected no alert below threshold, got %d", len(repo.alerts))
	}
	if messenger.sent != 0 {
		t.Errorf("expected no push below threshold, got %d", messenger.sent)
	}
}

func TestTransactionCommitted_AtThreshold(t *testing.T) {
	repo := &mockAlertRepo{}
	messenger := &mockMessenger{}
	service := NewService(repo, messenger, decimal.NewFromInt(10000))

	if _, err := service.RegisterDevice(context.Background(), CreateDeviceTokenParams{
		UserID: 1, Token: "tok-a", DeviceType: "web",
	}); err != nil {
		t.Fatalf("RegisterDevice failed: %v", err)
	}

	service.TransactionCommitted(context.Background(), "ref-1", "withdrawal", "FR76...", decimal.NewFromInt(10000))

	if len(repo.alerts) != 1 {
		t.Fatalf("expected 1 stored alert, got %d", len(repo.alerts))
	}
	if repo.alerts[0].Category != CategoryLargeTransaction {
		t.Errorf("expected large_transaction category, got %s", repo.alerts[0].Category)
	}
	if messenger.sent != 1 || len(messenger.lastBatch) != 1 {
		t.Errorf("expected one multicast to one token, got %d sends to %d tokens", messenger.sent, len(messenger.lastBatch))
	}
}

func TestTransactionCommitted_ZeroThresholdDisablesAlerts(t *testing.T) {
	repo := &mockAlertRepo{}
	service := NewService(repo, nil, decimal.Zero)

	service.TransactionCommitted(context.Background(), "ref-1", "deposit", "FR76...", decimal.NewFromInt(1000000))

	if len(repo.alerts) != 0 {
		t.Errorf("expected alerts disabled at zero threshold, got %d", len(repo.alerts))
	}
}

func TestRaise_NilMessengerStillStores(t *testing.T) {
	repo := &mockAlertRepo{}
	service := NewService(repo, nil, decimal.NewFromInt(1))

	service.Raise(context.Background(), CreateAlertParams{
		Title: "Maintenance", Message: "Store offline tonight", Category: CategoryGeneral,
	})

	if len(repo.alerts) != 1 {
		t.Errorf("expected 1 stored alert, got %d", len(repo.alerts))
	}
}

func TestRegisterDevice_Validation(t *testing.T) {
	service := NewService(&mockAlertRepo{}, nil, decimal.Zero)

	if _, err := service.RegisterDevice(context.Background(), CreateDeviceTokenParams{UserID: 1, DeviceType: "web"}); err == nil {
		t.Error("expected an error for missing token")
	}
	if _, err := service.RegisterDevice(context.Background(), CreateDeviceTokenParams{UserID: 1, Token: "tok", DeviceType: "desktop"}); err == nil {
		t.Error("expected an error for bad device type")
	}
}
