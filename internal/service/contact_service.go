package service

import (
	"context"

	"github.com/portfolio/backend/internal/mail"
	"github.com/portfolio/backend/internal/model"
)

// ContactInput is the raw contact form as received from the client.
type ContactInput struct {
	Name        string
	Email       string
	Company     string
	ProjectType string
	Budget      string
	Timeline    string
	Message     string
	Newsletter  bool
}

// ContactResult reports what happened to an accepted submission.
type ContactResult struct {
	SubmissionID string
	Notification mail.Outcome
	AutoReply    mail.Outcome
}

// AllEmailsSent reports whether both emails went out.
func (r *ContactResult) AllEmailsSent() bool {
	return r.Notification.Sent && r.AutoReply.Sent
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates, sanitizes and stores a submission, then runs the
	// best-effort side effects (emails, newsletter enrollment, analytics).
	// Validation failures are returned as *ValidationError. Any other error
	// means nothing was stored.
	Submit(ctx context.Context, in ContactInput, meta model.RequestMeta) (*ContactResult, error)
}

// Notifier sends the two contact emails. *mail.Dispatcher implements it.
type Notifier interface {
	NotifyOperator(ctx context.Context, s *model.ContactSubmission) mail.Outcome
	AutoReply(ctx context.Context, s *model.ContactSubmission) mail.Outcome
}
