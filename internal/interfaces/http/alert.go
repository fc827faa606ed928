package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"ledgerdesk/internal/domain/alert"
	"ledgerdesk/internal/shared/middleware"
)

type AlertHandler struct {
	alerts *alert.Service
}

func NewAlertHandler(alerts *alert.Service) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

type RegisterDeviceRequest struct {
	Token      string `json:"token" validate:"required"`
	DeviceType string `json:"deviceType" validate:"required,oneof=ios android web"`
}

// HandleRegisterDevice registers the caller's device for push alerts
func (h *AlertHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req RegisterDeviceRequest
	if !decodeValid(w, r, &req) {
		return
	}

	token, err := h.alerts.RegisterDevice(r.Context(), alert.CreateDeviceTokenParams{
		UserID:     userID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
	if err != nil {
		if errors.Is(err, alert.ErrInvalidToken) || errors.Is(err, alert.ErrInvalidDeviceType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error registering device for user %d: %v", userID, err)
		http.Error(w, "Failed to register device", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, token)
}

// HandleUnregisterDevice deactivates a device token
func (h *AlertHandler) HandleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.PathValue("token")
	if err := h.alerts.UnregisterDevice(r.Context(), token); err != nil {
		if errors.Is(err, alert.ErrDeviceTokenNotFound) {
			http.Error(w, "Device token not found", http.StatusNotFound)
			return
		}
		log.Printf("Error unregistering device: %v", err)
		http.Error(w, "Failed to unregister device", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFeed lists recent alerts for the dashboard
func (h *AlertHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
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

	feed, err := h.alerts.Feed(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing alerts: %v", err)
		http.Error(w, "Failed to list alerts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
