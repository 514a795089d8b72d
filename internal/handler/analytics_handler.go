package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/portfolio/backend/internal/service"
)

// AnalyticsHandler records client-side analytics events.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates an AnalyticsHandler with the given service.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

type trackRequest struct {
	EventType text            `json:"event_type"`
	EventData json.RawMessage `json:"event_data"`
}

// Track handles POST /api/analytics.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Event type is required")
		return
	}

	err := h.analyticsService.Track(r.Context(), string(req.EventType), req.EventData, requestMeta(r))
	if err != nil {
		if v, ok := service.IsValidation(err); ok {
			writeError(w, http.StatusBadRequest, v.Message)
			return
		}
		slog.ErrorContext(r.Context(), "analytics track failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to record analytics event")
		return
	}
	writeOK(w, "Analytics event recorded")
}
