package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/internal/service"
	"github.com/caseyos/caseyos/pkg/logger"
)

// NotificationHandler serves the operator notification feed.
type NotificationHandler struct {
	notificationService *service.NotificationService
	auth                *middleware.AdminAuth
	logger              logger.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, auth *middleware.AdminAuth, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		auth:                auth,
		logger:              logger,
	}
}

func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/notifications.list", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("/api/notifications.read", requireAuth(http.HandlerFunc(h.MarkRead)))
	mux.Handle("/api/notifications.dismiss", requireAuth(http.HandlerFunc(h.Dismiss)))
	mux.Handle("/api/notifications.snooze", requireAuth(http.HandlerFunc(h.Snooze)))
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	notifications, total, err := h.notificationService.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list notifications")
		WriteJSONError(w, "Failed to list notifications", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"total":         total,
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.setState(w, r, func(ctx *http.Request, id string) error {
		return h.notificationService.MarkRead(ctx.Context(), id)
	})
}

func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.setState(w, r, func(ctx *http.Request, id string) error {
		return h.notificationService.Dismiss(ctx.Context(), id)
	})
}

func (h *NotificationHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID    string    `json:"id"`
		Until time.Time `json:"until"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.notificationService.Snooze(r.Context(), req.ID, req.Until); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *NotificationHandler) setState(w http.ResponseWriter, r *http.Request, apply func(*http.Request, string) error) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := apply(r, req.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
