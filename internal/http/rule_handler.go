package http

import (
	"encoding/json"
	"net/http"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/pkg/logger"
)

// RuleHandler manages the auto-approval rule table and the approved
// recipient whitelist.
type RuleHandler struct {
	ruleRepo      domain.ApprovalRuleRepository
	recipientRepo domain.ApprovedRecipientRepository
	auth          *middleware.AdminAuth
	logger        logger.Logger
}

func NewRuleHandler(
	ruleRepo domain.ApprovalRuleRepository,
	recipientRepo domain.ApprovedRecipientRepository,
	auth *middleware.AdminAuth,
	logger logger.Logger,
) *RuleHandler {
	return &RuleHandler{
		ruleRepo:      ruleRepo,
		recipientRepo: recipientRepo,
		auth:          auth,
		logger:        logger,
	}
}

func (h *RuleHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/rules.list", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("/api/rules.create", requireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("/api/rules.update", requireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("/api/rules.delete", requireAuth(http.HandlerFunc(h.Delete)))
	mux.Handle("/api/whitelist.list", requireAuth(http.HandlerFunc(h.ListWhitelist)))
	mux.Handle("/api/whitelist.add", requireAuth(http.HandlerFunc(h.AddWhitelist)))
	mux.Handle("/api/whitelist.remove", requireAuth(http.HandlerFunc(h.RemoveWhitelist)))
}

func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rules, err := h.ruleRepo.ListAll(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list rules")
		WriteJSONError(w, "Failed to list rules", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rules": rules,
	})
}

func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var rule domain.AutoApprovalRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := rule.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.ruleRepo.Create(r.Context(), &rule); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"rule": rule,
	})
}

func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var rule domain.AutoApprovalRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if rule.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := rule.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.ruleRepo.Update(r.Context(), &rule); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rule": rule,
	})
}

func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.ruleRepo.Delete(r.Context(), req.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *RuleHandler) ListWhitelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recipients, err := h.recipientRepo.List(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list whitelist")
		WriteJSONError(w, "Failed to list whitelist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recipients": recipients,
	})
}

func (h *RuleHandler) AddWhitelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email  string `json:"email"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		WriteJSONError(w, "email is required", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		req.Reason = "added by " + middleware.Actor(r)
	}

	if err := h.recipientRepo.Add(r.Context(), &domain.ApprovedRecipient{Email: req.Email, Reason: req.Reason}); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
	})
}

func (h *RuleHandler) RemoveWhitelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		WriteJSONError(w, "email is required", http.StatusBadRequest)
		return
	}

	if err := h.recipientRepo.Remove(r.Context(), req.Email); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
