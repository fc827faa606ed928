package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"ledgerdesk/internal/domain/alert"
)

// AlertRepository implements the alert.Repository interface for PostgreSQL
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates a new PostgreSQL alert repository
func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// UpsertDeviceToken registers a device token, reassigning it if it already
// belongs to another operator.
func (r *AlertRepository) UpsertDeviceToken(ctx context.Context, params alert.CreateDeviceTokenParams) (*alert.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (user_id, token, device_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type,
			is_active = true,
			last_used = now()
		RETURNING id, user_id, token, device_type, is_active, created_at, last_used`

	var t alert.DeviceToken
	err := r.db.QueryRowContext(ctx, query, params.UserID, params.Token, params.DeviceType).Scan(
		&t.ID, &t.UserID, &t.Token, &t.DeviceType, &t.IsActive, &t.CreatedAt, &t.LastUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}
	return &t, nil
}

// DeactivateDeviceToken marks a token inactive
func (r *AlertRepository) DeactivateDeviceToken(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE device_tokens SET is_active = false WHERE token = $1`, token,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return alert.ErrDeviceTokenNotFound
	}
	return nil
}

// ActiveTokens returns all active device tokens across operators
func (r *AlertRepository) ActiveTokens(ctx context.Context) ([]*alert.DeviceToken, error) {
	query := `
		SELECT id, user_id, token, device_type, is_active, created_at, last_used
		FROM device_tokens WHERE is_active = true`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var out []*alert.DeviceToken
	for rows.Next() {
		var t alert.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.DeviceType, &t.IsActive, &t.CreatedAt, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// CreateAlert stores an alert record for the dashboard feed
func (r *AlertRepository) CreateAlert(ctx context.Context, params alert.CreateAlertParams) (*alert.Alert, error) {
	data := params.Data
	if data == nil {
		data = map[string]string{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding alert data: %w", err)
	}

	query := `
		INSERT INTO alerts (title, message, category, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, message, category, created_at`

	a := alert.Alert{Data: data}
	err = r.db.QueryRowContext(ctx, query, params.Title, params.Message, params.Category, payload).Scan(
		&a.ID, &a.Title, &a.Message, &a.Category, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return &a, nil
}

// ListAlerts returns recent alert records, most recent first
func (r *AlertRepository) ListAlerts(ctx context.Context, limit int) ([]*alert.Alert, error) {
	query := `
		SELECT id, title, message, category, data, created_at
		FROM alerts ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var out []*alert.Alert
	for rows.Next() {
		var a alert.Alert
		var payload []byte
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Category, &payload, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if err := json.Unmarshal(payload, &a.Data); err != nil {
			return nil, fmt.Errorf("decoding alert data: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
