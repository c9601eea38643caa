package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/http/middleware"
	"github.com/caseyos/caseyos/internal/service"
	"github.com/caseyos/caseyos/pkg/logger"
)

// OutcomeHandler records manual outcomes and serves outcome history and
// aggregate stats.
type OutcomeHandler struct {
	outcomeService *service.OutcomeService
	auth           *middleware.AdminAuth
	logger         logger.Logger
}

func NewOutcomeHandler(outcomeService *service.OutcomeService, auth *middleware.AdminAuth, logger logger.Logger) *OutcomeHandler {
	return &OutcomeHandler{
		outcomeService: outcomeService,
		auth:           auth,
		logger:         logger,
	}
}

func (h *OutcomeHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.Require()
	mux.Handle("/api/outcomes.record", requireAuth(http.HandlerFunc(h.Record)))
	mux.Handle("/api/outcomes.list", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("/api/outcomes.stats", requireAuth(http.HandlerFunc(h.Stats)))
}

// Record stores a manually observed outcome. The impact value comes from
// the fixed taxonomy table; any client-supplied impact is ignored.
func (h *OutcomeHandler) Record(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SubjectKind string         `json:"subject_kind"`
		SubjectID   string         `json:"subject_id"`
		Kind        string         `json:"kind"`
		Details     domain.JSONMap `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record := &domain.OutcomeRecord{
		SubjectKind: domain.OutcomeSubjectKind(req.SubjectKind),
		SubjectID:   req.SubjectID,
		Kind:        domain.OutcomeKind(req.Kind),
		Source:      domain.OutcomeSourceManual,
		DetectedAt:  time.Now().UTC(),
		Details:     req.Details,
	}

	if err := h.outcomeService.Record(r.Context(), record); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"outcome": record,
	})
}

func (h *OutcomeHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind := domain.OutcomeSubjectKind(r.URL.Query().Get("subject_kind"))
	id := r.URL.Query().Get("subject_id")
	if kind == "" || id == "" {
		WriteJSONError(w, "subject_kind and subject_id are required", http.StatusBadRequest)
		return
	}

	outcomes, err := h.outcomeService.ListBySubject(r.Context(), kind, id)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list outcomes")
		WriteJSONError(w, "Failed to list outcomes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"outcomes": outcomes,
	})
}

// Stats aggregates outcomes over a range; defaults to the trailing 30 days.
func (h *OutcomeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now().UTC()
	rng := domain.TimeRange{Start: now.AddDate(0, 0, -30), End: now}

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteJSONError(w, "start must be RFC3339", http.StatusBadRequest)
			return
		}
		rng.Start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteJSONError(w, "end must be RFC3339", http.StatusBadRequest)
			return
		}
		rng.End = parsed
	}
	if err := rng.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	stats, err := h.outcomeService.Stats(r.Context(), rng)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to compute outcome stats")
		WriteJSONError(w, "Failed to compute outcome stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats": stats,
		"range": rng,
	})
}
