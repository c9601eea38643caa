package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/logger"
)

// Pinger is anything with broker-style reachability (the redis counter
// store implements it).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness, readiness, and the per-connector
// dependency report. These routes are unauthenticated.
type HealthHandler struct {
	db         *sql.DB
	broker     Pinger
	connectors *domain.ConnectorRegistry
	logger     logger.Logger
}

func NewHealthHandler(db *sql.DB, broker Pinger, connectors *domain.ConnectorRegistry, logger logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:         db,
		broker:     broker,
		connectors: connectors,
		logger:     logger,
	}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/health", http.HandlerFunc(h.Liveness))
	mux.Handle("/health/liveness", http.HandlerFunc(h.Liveness))
	mux.Handle("/health/readiness", http.HandlerFunc(h.Readiness))
	mux.Handle("/health/dependencies", http.HandlerFunc(h.Dependencies))
}

// Liveness reports only that the process is serving.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// Readiness checks the database and broker. A failing check returns 503 so
// the load balancer stops routing here.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"broker":   "ok",
	}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if h.broker != nil {
		if err := h.broker.Ping(ctx); err != nil {
			checks["broker"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		h.logger.WithFields(map[string]interface{}{
			"database": checks["database"],
			"broker":   checks["broker"],
		}).Warn("Readiness check failed")
	}

	writeJSON(w, status, map[string]interface{}{
		"healthy": healthy,
		"checks":  checks,
	})
}

// Dependencies reports the last observed state of each connector.
func (h *HealthHandler) Dependencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connectors": h.connectors.Statuses(),
	})
}
