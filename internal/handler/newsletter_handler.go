package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/portfolio/backend/internal/service"
)

// NewsletterHandler handles newsletter subscription management.
type NewsletterHandler struct {
	newsletterService service.NewsletterService
}

// NewNewsletterHandler creates a NewsletterHandler with the given service.
func NewNewsletterHandler(newsletterService service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

type subscribeRequest struct {
	Email text `json:"email"`
	Name  text `json:"name"`
}

// Subscribe handles POST /api/newsletter/subscribe.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	_, err := h.newsletterService.Subscribe(r.Context(), string(req.Email), string(req.Name), requestMeta(r))
	switch {
	case err == nil:
		writeOK(w, "Successfully subscribed to newsletter!")
	case errors.Is(err, service.ErrAlreadySubscribed):
		writeError(w, http.StatusConflict, "Email already subscribed to newsletter")
	default:
		if v, ok := service.IsValidation(err); ok {
			writeError(w, http.StatusBadRequest, v.Message)
			return
		}
		slog.ErrorContext(r.Context(), "newsletter subscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to subscribe to newsletter")
	}
}

// Unsubscribe handles GET|POST /api/newsletter/unsubscribe?token=...
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	_, err := h.newsletterService.Unsubscribe(r.Context(), token)
	switch {
	case err == nil:
		writeOK(w, "Successfully unsubscribed from newsletter")
	case errors.Is(err, service.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, "Subscription not found")
	default:
		if v, ok := service.IsValidation(err); ok {
			writeError(w, http.StatusBadRequest, v.Message)
			return
		}
		slog.ErrorContext(r.Context(), "newsletter unsubscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to unsubscribe from newsletter")
	}
}
