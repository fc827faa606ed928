package alert

import (
	"errors"
	"time"
)

// Alert categories
const (
	CategoryLargeTransaction = "large_transaction"
	CategoryAttestation      = "attestation"
	CategoryGeneral          = "general"
)

var validCategories = map[string]struct{}{
	CategoryLargeTransaction: {},
	CategoryAttestation:      {},
	CategoryGeneral:          {},
}

var validDeviceTypes = map[string]struct{}{
	"ios":     {},
	"android": {},
	"web":     {},
}

// Domain errors
var (
	ErrDeviceTokenNotFound = errors.New("device token not found")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrInvalidCategory     = errors.New("invalid alert category")
	ErrInvalidDeviceType   = errors.New("device type must be 'ios', 'android' or 'web'")
	ErrInvalidToken        = errors.New("device token is required")
)

// DeviceToken represents a registered FCM device token for an operator
type DeviceToken struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	Token      string    `json:"token"`
	DeviceType string    `json:"deviceType"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// Alert represents a stored alert record shown in the dashboard feed
type Alert struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"createdAt"`
}

// CreateDeviceTokenParams contains parameters for registering a device
type CreateDeviceTokenParams struct {
	UserID     int64
	Token      string
	DeviceType string
}

func (p CreateDeviceTokenParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Token == "" {
		return ErrInvalidToken
	}
	if !IsValidDeviceType(p.DeviceType) {
		return ErrInvalidDeviceType
	}
	return nil
}

// CreateAlertParams contains parameters for storing an alert record
type CreateAlertParams struct {
	Title    string
	Message  string
	Category string
	Data     map[string]string
}

func (p CreateAlertParams) Validate() error {
	if p.Title == "" {
		return errors.New("alert title is required")
	}
	if p.Message == "" {
		return errors.New("alert message is required")
	}
	if !IsValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func IsValidCategory(c string) bool {
	_, ok := validCategories[c]
	return ok
}

func IsValidDeviceType(dt string) bool {
	_, ok := validDeviceTypes[dt]
	return ok
}
