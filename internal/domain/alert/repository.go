package alert

import "context"

// Repository defines the interface for alert persistence
type Repository interface {
	UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	DeactivateDeviceToken(ctx context.Context, token string) error

	// ActiveTokens returns all active device tokens across operators.
	ActiveTokens(ctx context.Context) ([]*DeviceToken, error)

	CreateAlert(ctx context.Context, params CreateAlertParams) (*Alert, error)
	ListAlerts(ctx context.Context, limit int) ([]*Alert, error)
}
