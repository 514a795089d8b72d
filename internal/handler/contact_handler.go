package handler

import (
	"log/slog"
	"net/http"

	"github.com/portfolio/backend/internal/service"
)

const msgContactSuccess = "Your message has been sent successfully! I'll get back to you within 2 hours."

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name        text   `json:"name"`
	Email       text   `json:"email"`
	Company     text   `json:"company"`
	ProjectType text   `json:"projectType"`
	Budget      text   `json:"budget"`
	Timeline    text   `json:"timeline"`
	Message     text   `json:"message"`
	Newsletter  truthy `json:"newsletter"`
}

type emailStatus struct {
	NotificationSent bool `json:"notification_sent"`
	AutoReplySent    bool `json:"auto_reply_sent"`
}

type submitResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	SubmissionID string       `json:"submission_id"`
	EmailStatus  *emailStatus `json:"email_status,omitempty"`
}

// Submit handles POST /api/contact.
// name, email and message are required; the rest is optional.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgNoData)
		return
	}

	res, err := h.contactService.Submit(r.Context(), service.ContactInput{
		Name:        string(req.Name),
		Email:       string(req.Email),
		Company:     string(req.Company),
		ProjectType: string(req.ProjectType),
		Budget:      string(req.Budget),
		Timeline:    string(req.Timeline),
		Message:     string(req.Message),
		Newsletter:  bool(req.Newsletter),
	}, requestMeta(r))
	if err != nil {
		if v, ok := service.IsValidation(err); ok {
			writeError(w, http.StatusBadRequest, v.Message)
			return
		}
		slog.ErrorContext(r.Context(), "contact submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgContactError)
		return
	}

	resp := submitResponse{
		Success:      true,
		Message:      msgContactSuccess,
		SubmissionID: res.SubmissionID,
	}
	if !res.AllEmailsSent() {
		resp.EmailStatus = &emailStatus{
			NotificationSent: res.Notification.Sent,
			AutoReplySent:    res.AutoReply.Sent,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
