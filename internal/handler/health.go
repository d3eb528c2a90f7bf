package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/hackconnect/internal/domain"
	redisinfra "github.com/yourorg/hackconnect/internal/infrastructure/redis"
)

// HealthHandler handles liveness, readiness, and the root status page.
type HealthHandler struct {
	identities  domain.IdentityStore
	redisClient *redisinfra.Client
	environment string
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. redisClient may be nil when
// caching runs in-process.
func NewHealthHandler(identities domain.IdentityStore, redisClient *redisinfra.Client, environment string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		identities:  identities,
		redisClient: redisClient,
		environment: environment,
		logger:      logger,
	}
}

// Status handles GET / so a browser hitting the API root sees something.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "online",
		"project":     "HackConnect API",
		"environment": h.environment,
	})
}

// Health handles GET /healthz. Liveness only; no dependencies are touched.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Ready handles GET /readyz. Probes the identity backend with a one-item
// list and pings redis when configured.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if _, err := h.identities.List(ctx, 1, 0); err != nil {
		checks["identity_store"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["identity_store"] = "ok"
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !healthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadinessResponse{Status: status, Checks: checks})

	h.logger.Info("readiness check",
		slog.String("status", status),
		slog.String("identity_store", checks["identity_store"]),
		slog.String("redis", checks["redis"]),
	)
}
