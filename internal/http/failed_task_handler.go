package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/internal/service"
	"github.com/caseyos/caseyos/pkg/logger"
)

// FailedTaskHandler exposes the dead letter queue: list, retry now, and
// resolve without retry.
type FailedTaskHandler struct {
	failedTaskRepo domain.FailedTaskRepository
	taskService    *service.TaskService
	auth           *middleware.AdminAuth
	logger         logger.Logger
}

func NewFailedTaskHandler(
	failedTaskRepo domain.FailedTaskRepository,
	taskService *service.TaskService,
	auth *middleware.AdminAuth,
	logger logger.Logger,
) *FailedTaskHandler {
	return &FailedTaskHandler{
		failedTaskRepo: failedTaskRepo,
		taskService:    taskService,
		auth:           auth,
		logger:         logger,
	}
}

func (h *FailedTaskHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/failedTasks.list", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("/api/failedTasks.retry", requireAuth(http.HandlerFunc(h.Retry)))
	mux.Handle("/api/failedTasks.resolve", requireAuth(http.HandlerFunc(h.Resolve)))
}

func (h *FailedTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, total, err := h.failedTaskRepo.ListUnresolved(r.Context(), limit, offset)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list dead letter entries")
		WriteJSONError(w, "Failed to list failed tasks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"failed_tasks": entries,
		"total":        total,
	})
}

// Retry re-enqueues one entry immediately.
func (h *FailedTaskHandler) Retry(w http.ResponseWriter, r *http.Request) {
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

	entry, err := h.failedTaskRepo.Get(r.Context(), req.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entry.Resolved() {
		WriteJSONError(w, "entry is already resolved", http.StatusConflict)
		return
	}

	task, err := h.taskService.Enqueue(r.Context(), entry.TaskName, entry.Payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.failedTaskRepo.MarkResolved(r.Context(), entry.ID, time.Now().UTC()); err != nil {
		h.logger.WithField("failed_task_id", entry.ID).Error("Failed to resolve dead letter entry after retry")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task": task,
	})
}

// Resolve closes an entry without retrying it.
func (h *FailedTaskHandler) Resolve(w http.ResponseWriter, r *http.Request) {
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

	if err := h.failedTaskRepo.MarkResolved(r.Context(), req.ID, time.Now().UTC()); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
