package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio/backend/internal/model"
)

// senderFunc adapts a function to Sender.
type senderFunc func(ctx context.Context, msg Message) error

func (f senderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSubmission() *model.ContactSubmission {
	return &model.ContactSubmission{
		SubmissionID: "3f1c8a2e-0000-4000-8000-000000000001",
		Name:         "Ann",
		Email:        "ann@example.com",
		ProjectType:  "web",
		Message:      "Build me a site",
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Meta:         model.RequestMeta{IPAddress: "203.0.113.7", UserAgent: "curl/8"},
	}
}

func TestDispatcher_NotifyOperator(t *testing.T) {
	var got Message
	d := NewDispatcher(senderFunc(func(_ context.Context, msg Message) error {
		got = msg
		return nil
	}), "site@example.com", "owner@example.com", discardLogger())

	out := d.NotifyOperator(context.Background(), testSubmission())

	require.True(t, out.Sent)
	require.NoError(t, out.Err)
	assert.Equal(t, KindOperatorNotification, out.Kind)
	assert.Equal(t, "site@example.com", got.From)
	assert.Equal(t, "owner@example.com", got.To)
	assert.Equal(t, "ann@example.com", got.ReplyTo)
	assert.Equal(t, "New Portfolio Contact: Ann", got.Subject)
	assert.Contains(t, got.Body, "Name: Ann")
	assert.Contains(t, got.Body, "Company: Not provided")
	assert.Contains(t, got.Body, "Project Type: web")
	assert.Contains(t, got.Body, "Budget: Not specified")
	assert.Contains(t, got.Body, "Newsletter Signup: No")
	assert.Contains(t, got.Body, "Submitted at: 2025-03-01T12:00:00Z")
	assert.Contains(t, got.Body, "IP Address: 203.0.113.7")
	assert.Contains(t, got.Body, "Referrer: Direct")
}

func TestDispatcher_AutoReply(t *testing.T) {
	var got Message
	d := NewDispatcher(senderFunc(func(_ context.Context, msg Message) error {
		got = msg
		return nil
	}), "site@example.com", "owner@example.com", discardLogger())

	out := d.AutoReply(context.Background(), testSubmission())

	require.True(t, out.Sent)
	assert.Equal(t, KindAutoReply, out.Kind)
	assert.Equal(t, "ann@example.com", got.To)
	assert.Equal(t, AutoReplySubject, got.Subject)
	assert.True(t, strings.HasPrefix(got.Body, "Dear Ann,"))
	assert.Contains(t, got.Body, "Budget Range: Not specified")
	assert.Contains(t, got.Body, "Timeline: Not specified")
}

func TestDispatcher_Failures(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("transport error", func(t *testing.T) {
		d := NewDispatcher(senderFunc(func(context.Context, Message) error { return boom }),
			"site@example.com", "owner@example.com", discardLogger())
		out := d.NotifyOperator(context.Background(), testSubmission())
		assert.False(t, out.Sent)
		assert.False(t, out.Skipped())
		assert.ErrorIs(t, out.Err, boom)
	})

	t.Run("not configured", func(t *testing.T) {
		d := NewDispatcher(DisabledSender{}, "site@example.com", "owner@example.com", discardLogger())
		out := d.AutoReply(context.Background(), testSubmission())
		assert.False(t, out.Sent)
		assert.True(t, out.Skipped())
	})

	t.Run("nil sender", func(t *testing.T) {
		d := NewDispatcher(nil, "site@example.com", "owner@example.com", nil)
		out := d.AutoReply(context.Background(), testSubmission())
		assert.True(t, out.Skipped())
	})
}

func TestMessage_Validate(t *testing.T) {
	ok := Message{From: "a@example.com", To: "b@example.com", Subject: "s"}
	assert.NoError(t, ok.Validate())

	for name, m := range map[string]Message{
		"no from":    {To: "b@example.com", Subject: "s"},
		"no to":      {From: "a@example.com", Subject: "s"},
		"no subject": {From: "a@example.com", To: "b@example.com"},
	} {
		assert.ErrorIs(t, m.Validate(), ErrInvalidMessage, name)
	}
}

func TestSMTPSender_WithoutPassword(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "a@example.com"})
	err := s.Send(context.Background(), Message{From: "a@example.com", To: "b@example.com", Subject: "s"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPSender_InvalidMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Password: "secret"})
	err := s.Send(context.Background(), Message{From: "a@example.com", Subject: "s"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}
