package handler

import (
	"log/slog"
	"net/http"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

// StatsHandler serves aggregate statistics.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a StatsHandler with the given service.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   *model.Stats `json:"stats"`
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.statsService.Get(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: st})
}
