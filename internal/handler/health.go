package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/portfolio/backend/internal/repository"
)

const (
	serviceName    = "Portfolio Backend"
	serviceVersion = "1.0.0"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db  repository.DB
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler pinging db for readiness.
func NewHealthHandler(db repository.DB) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /health. It reports liveness only.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Version:   serviceVersion,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

type readyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Ready handles GET /ready by pinging the store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{
			Status:  "unhealthy",
			Message: "database unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{Status: "ok"})
}
