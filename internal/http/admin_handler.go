package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/pkg/logger"
)

// AdminHandler owns the global gates: the emergency stop kill switch, the
// auto-approve toggle, and draft-only mode.
type AdminHandler struct {
	settingRepo  domain.SettingRepository
	workflowRepo domain.WorkflowRepository
	auditRepo    domain.AuditLogRepository
	auth         *middleware.AdminAuth
	logger       logger.Logger
}

func NewAdminHandler(
	settingRepo domain.SettingRepository,
	workflowRepo domain.WorkflowRepository,
	auditRepo domain.AuditLogRepository,
	auth *middleware.AdminAuth,
	logger logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		settingRepo:  settingRepo,
		workflowRepo: workflowRepo,
		auditRepo:    auditRepo,
		auth:         auth,
		logger:       logger,
	}
}

func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/admin.emergencyStop", requireAuth(http.HandlerFunc(h.EmergencyStop)))
	mux.Handle("/api/admin.resume", requireAuth(http.HandlerFunc(h.Resume)))
	mux.Handle("/api/admin.status", requireAuth(http.HandlerFunc(h.Status)))
	mux.Handle("/api/admin.setGate", requireAuth(http.HandlerFunc(h.SetGate)))
	mux.Handle("/api/workflows.cancel", requireAuth(http.HandlerFunc(h.CancelWorkflow)))
	mux.Handle("/api/workflows.get", requireAuth(http.HandlerFunc(h.GetWorkflow)))
}

// EmergencyStop halts all sending and auto-approval immediately. Ingest
// keeps running so nothing is lost while stopped.
func (h *AdminHandler) EmergencyStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.settingRepo.SetBool(r.Context(), domain.SettingEmergencyStop, true); err != nil {
		writeDomainError(w, err)
		return
	}
	h.auditGate(r, "emergency_stop", true)
	h.logger.Warn("Emergency stop engaged")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"emergency_stop": true,
	})
}

func (h *AdminHandler) Resume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.settingRepo.SetBool(r.Context(), domain.SettingEmergencyStop, false); err != nil {
		writeDomainError(w, err)
		return
	}
	h.auditGate(r, "emergency_stop", false)
	h.logger.Info("Emergency stop released")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"emergency_stop": false,
	})
}

// Status reports the gate settings in one call.
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gates := map[string]bool{}
	for _, key := range []string{domain.SettingEmergencyStop, domain.SettingAutoApproveEnabled, domain.SettingModeDraftOnly} {
		value, err := h.settingRepo.GetBool(r.Context(), key, false)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		gates[key] = value
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gates": gates,
	})
}

// SetGate flips one boolean gate. Emergency stop has its own endpoints so
// it is never toggled by accident.
func (h *AdminHandler) SetGate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key     string `json:"key"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Key {
	case domain.SettingAutoApproveEnabled, domain.SettingModeDraftOnly:
	default:
		WriteJSONError(w, "unknown or protected gate: "+req.Key, http.StatusBadRequest)
		return
	}

	if err := h.settingRepo.SetBool(r.Context(), req.Key, req.Enabled); err != nil {
		writeDomainError(w, err)
		return
	}
	h.auditGate(r, req.Key, req.Enabled)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":     req.Key,
		"enabled": req.Enabled,
	})
}

// CancelWorkflow flips the cancellation flag; the pipeline checks it
// between steps and stops at the next boundary.
func (h *AdminHandler) CancelWorkflow(w http.ResponseWriter, r *http.Request) {
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

	if err := h.workflowRepo.MarkCancelled(r.Context(), req.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *AdminHandler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	workflow, err := h.workflowRepo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow": workflow,
	})
}

func (h *AdminHandler) auditGate(r *http.Request, key string, enabled bool) {
	entry := &domain.AuditEntry{
		Actor:   middleware.Actor(r),
		Action:  "set_gate",
		Subject: key,
		After:   domain.JSONMap{"enabled": enabled},
		At:      time.Now().UTC(),
	}
	if err := h.auditRepo.Append(r.Context(), entry); err != nil {
		h.logger.WithField("gate", key).Error("Failed to audit gate change")
	}
}
