package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/service"
	"github.com/caseyos/caseyos/pkg/logger"
)

// maxWebhookBody caps inbound payload size at 1 MiB.
const maxWebhookBody = 1 << 20

// WebhookHandler is the public ingest surface. Signatures are verified per
// source before anything is stored; non-essential sources are shed with a
// 503 under backpressure.
type WebhookHandler struct {
	ingestService *service.IngestService
	logger        logger.Logger
}

func NewWebhookHandler(ingestService *service.IngestService, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// RegisterRoutes registers the webhook routes. The source is the path
// suffix: POST /api/webhooks/form, /api/webhooks/crm, and so on.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/webhooks/", http.HandlerFunc(h.Receive))
}

// Receive verifies, dedupes, and routes one inbound event. Duplicates are
// acknowledged with 202 so providers stop retrying.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source := domain.SignalSource(strings.TrimPrefix(r.URL.Path, "/api/webhooks/"))
	if !source.Valid() {
		WriteJSONError(w, "Unknown webhook source", http.StatusNotFound)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(payload) == 0 {
		WriteJSONError(w, "Empty payload", http.StatusBadRequest)
		return
	}

	if err := h.ingestService.VerifySignature(source, payload, r.Header); err != nil {
		h.logger.WithField("source", string(source)).Warn("Webhook signature rejected")
		writeDomainError(w, err)
		return
	}

	overloaded, err := h.ingestService.Overloaded(r.Context(), source)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Backpressure check failed")
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if overloaded {
		w.Header().Set("Retry-After", "60")
		WriteJSONError(w, "Ingest overloaded, retry later", http.StatusServiceUnavailable)
		return
	}

	result, err := h.ingestService.Ingest(r.Context(), source, r.URL.Query().Get("kind"), payload)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"source": string(source),
			"error":  err.Error(),
		}).Error("Failed to ingest webhook")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}
