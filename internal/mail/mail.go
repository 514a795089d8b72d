// Package mail delivers the operator notification and the requester
// auto-reply for contact submissions.
//
// A Sender moves one plain-text Message over some transport (SMTP, Postmark,
// a local outbox directory). The Dispatcher renders the two messages from a
// submission and turns every delivery attempt into an Outcome; it never
// returns an error, so a mail failure can not fail the HTTP request.
package mail

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned by senders that are switched off, e.g. the
	// SMTP driver without a password.
	ErrNotConfigured = errors.New("mail: sender not configured")
	// ErrFailedToSend wraps transport failures.
	ErrFailedToSend = errors.New("mail: failed to send")
	// ErrInvalidMessage is returned for messages without a recipient or sender.
	ErrInvalidMessage = errors.New("mail: invalid message")
)

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
	// Tag labels the message for providers that support it.
	Tag string
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	switch {
	case m.From == "":
		return errors.Join(ErrInvalidMessage, errors.New("from is required"))
	case m.To == "":
		return errors.Join(ErrInvalidMessage, errors.New("to is required"))
	case m.Subject == "":
		return errors.Join(ErrInvalidMessage, errors.New("subject is required"))
	}
	return nil
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DisabledSender reports every message as not sent.
type DisabledSender struct{}

func (DisabledSender) Send(context.Context, Message) error { return ErrNotConfigured }
