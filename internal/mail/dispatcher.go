package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"log/slog"
	"text/template"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

// AutoReplySubject is the fixed subject of the requester auto-reply.
const AutoReplySubject = "Thank you for contacting Moeed ul Hassan - The Legend"

// Kind identifies which of the two contact emails an Outcome belongs to.
type Kind string

const (
	KindOperatorNotification Kind = "operator_notification"
	KindAutoReply            Kind = "auto_reply"
)

// Outcome is the result of one delivery attempt.
type Outcome struct {
	Kind Kind
	Sent bool
	Err  error
}

// Skipped reports whether the attempt was not made because no sender is configured.
func (o Outcome) Skipped() bool { return errors.Is(o.Err, ErrNotConfigured) }

func (o Outcome) result() string {
	switch {
	case o.Sent:
		return "sent"
	case o.Skipped():
		return "skipped"
	default:
		return "failed"
	}
}

// Dispatcher renders and sends the contact emails.
type Dispatcher struct {
	sender   Sender
	from     string
	operator string
	log      *slog.Logger
}

// NewDispatcher returns a Dispatcher sending as from, notifying operator.
func NewDispatcher(sender Sender, from, operator string, log *slog.Logger) *Dispatcher {
	if sender == nil {
		sender = DisabledSender{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{sender: sender, from: from, operator: operator, log: log}
}

// NotifyOperator tells the site owner about a new submission.
func (d *Dispatcher) NotifyOperator(ctx context.Context, s *model.ContactSubmission) Outcome {
	return d.dispatch(ctx, KindOperatorNotification, s, Message{
		From:    d.from,
		To:      d.operator,
		ReplyTo: s.Email,
		Subject: "New Portfolio Contact: " + s.Name,
	})
}

// AutoReply acknowledges the submission to the requester.
func (d *Dispatcher) AutoReply(ctx context.Context, s *model.ContactSubmission) Outcome {
	return d.dispatch(ctx, KindAutoReply, s, Message{
		From:    d.from,
		To:      s.Email,
		Subject: AutoReplySubject,
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, kind Kind, s *model.ContactSubmission, msg Message) Outcome {
	out := Outcome{Kind: kind}
	defer func() {
		metrics.MailDispatches.WithLabelValues(string(kind), out.result()).Inc()
	}()

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(kind)+".txt", s); err != nil {
		out.Err = err
		d.log.ErrorContext(ctx, "render email failed", "kind", kind, "error", err)
		return out
	}
	msg.Body = body.String()
	msg.Tag = string(kind)

	if err := d.sender.Send(ctx, msg); err != nil {
		out.Err = err
		if out.Skipped() {
			d.log.WarnContext(ctx, "mail sender not configured, skipping email", "kind", kind)
		} else {
			d.log.ErrorContext(ctx, "send email failed", "kind", kind, "to", msg.To, "error", err)
		}
		return out
	}
	out.Sent = true
	d.log.InfoContext(ctx, "email sent", "kind", kind, "to", msg.To, "submission_id", s.SubmissionID)
	return out
}
