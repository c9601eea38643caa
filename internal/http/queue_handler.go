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

// QueueHandler serves the command queue: the ranked list the operator works
// from, and the execute/dismiss actions on its items.
type QueueHandler struct {
	queueRepo domain.CommandQueueRepository
	executor  *service.ExecutorService
	auth      *middleware.AdminAuth
	logger    logger.Logger
}

func NewQueueHandler(queueRepo domain.CommandQueueRepository, executor *service.ExecutorService, auth *middleware.AdminAuth, logger logger.Logger) *QueueHandler {
	return &QueueHandler{
		queueRepo: queueRepo,
		executor:  executor,
		auth:      auth,
		logger:    logger,
	}
}

func (h *QueueHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/queue.list", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("/api/queue.get", requireAuth(http.HandlerFunc(h.Get)))
	mux.Handle("/api/queue.accept", requireAuth(http.HandlerFunc(h.Accept)))
	mux.Handle("/api/queue.dismiss", requireAuth(http.HandlerFunc(h.Dismiss)))
	mux.Handle("/api/queue.execute", requireAuth(http.HandlerFunc(h.Execute)))
}

// List returns today's ranked queue, optionally filtered by domain.
func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
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

	queueDomain := domain.QueueDomain(r.URL.Query().Get("domain"))
	items, err := h.queueRepo.ListToday(r.Context(), queueDomain, limit)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list queue items")
		WriteJSONError(w, "Failed to list queue items", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *QueueHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	item, err := h.queueRepo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item": item,
	})
}

// Accept marks an item accepted, reserving it for the operator.
func (h *QueueHandler) Accept(w http.ResponseWriter, r *http.Request) {
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

	if err := h.queueRepo.SetStatus(r.Context(), req.ID, domain.QueueItemAccepted, "accepted by "+middleware.Actor(r)); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *QueueHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
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

	if err := h.executor.Dismiss(r.Context(), req.ID, middleware.Actor(r), req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Execute runs the action behind a queue item. dry_run walks every gate
// without side effects and reports the would-be outcome.
func (h *QueueHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID     string `json:"id"`
		DryRun bool   `json:"dry_run"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	result, err := h.executor.Execute(r.Context(), req.ID, middleware.Actor(r), req.DryRun)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"queue_item_id": req.ID,
			"error":         err.Error(),
		}).Warn("Queue item execution refused or failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
	})
}
