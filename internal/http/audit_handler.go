package http

import (
	"net/http"
	"strconv"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/pkg/logger"
)

// AuditHandler serves the append-only audit trail.
type AuditHandler struct {
	auditRepo domain.AuditLogRepository
	auth      *middleware.AdminAuth
	logger    logger.Logger
}

func NewAuditHandler(auditRepo domain.AuditLogRepository, auth *middleware.AdminAuth, logger logger.Logger) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo, auth: auth, logger: logger}
}

func (h *AuditHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/audit.list", requireAuth(http.HandlerFunc(h.List)))
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	subject := r.URL.Query().Get("subject")

	entries, total, err := h.auditRepo.List(r.Context(), subject, limit, offset)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list audit entries")
		WriteJSONError(w, "Failed to list audit entries", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}
