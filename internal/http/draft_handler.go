package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/internal/service"
	"github.com/caseyos/caseyos/pkg/logger"
)

// DraftHandler serves drafts and their lifecycle actions: approve, reject,
// rollback, and the approval evaluation trail.
type DraftHandler struct {
	draftRepo       domain.DraftRepository
	approvalService *service.ApprovalService
	executor        *service.ExecutorService
	auth            *middleware.AdminAuth
	logger          logger.Logger
}

func NewDraftHandler(
	draftRepo domain.DraftRepository,
	approvalService *service.ApprovalService,
	executor *service.ExecutorService,
	auth *middleware.AdminAuth,
	logger logger.Logger,
) *DraftHandler {
	return &DraftHandler{
		draftRepo:       draftRepo,
		approvalService: approvalService,
		executor:        executor,
		auth:            auth,
		logger:          logger,
	}
}

func (h *DraftHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/drafts.get", requireAuth(http.HandlerFunc(h.Get)))
	mux.Handle("/api/drafts.list", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("/api/drafts.approve", requireAuth(http.HandlerFunc(h.Approve)))
	mux.Handle("/api/drafts.reject", requireAuth(http.HandlerFunc(h.Reject)))
	mux.Handle("/api/drafts.rollback", requireAuth(http.HandlerFunc(h.Rollback)))
	mux.Handle("/api/drafts.approvalHistory", requireAuth(http.HandlerFunc(h.ApprovalHistory)))
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	draft, err := h.draftRepo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft": draft,
	})
}

func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := domain.DraftStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.DraftStatusPending
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			WriteJSONError(w, "limit must be between 1 and 200", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	drafts, err := h.draftRepo.ListByStatus(r.Context(), status, limit)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list drafts")
		WriteJSONError(w, "Failed to list drafts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"drafts": drafts,
	})
}

func (h *DraftHandler) Approve(w http.ResponseWriter, r *http.Request) {
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

	draft, err := h.approvalService.ApproveManually(r.Context(), req.ID, middleware.Actor(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft": draft,
	})
}

func (h *DraftHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	draft, err := h.approvalService.Reject(r.Context(), req.ID, middleware.Actor(r), req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft": draft,
	})
}

// Rollback compensates a sent draft within the 30-minute window. The
// delivered email is never recalled; only draft artifacts and CRM tasks go.
func (h *DraftHandler) Rollback(w http.ResponseWriter, r *http.Request) {
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

	draft, err := h.executor.Rollback(r.Context(), req.ID, middleware.Actor(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft": draft,
	})
}

func (h *DraftHandler) ApprovalHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	entries, err := h.approvalService.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
