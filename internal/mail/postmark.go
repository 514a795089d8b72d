package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkSender sends through Postmark's transactional API.
type PostmarkSender struct {
	client *postmark.Client
}

// NewPostmarkSender returns a sender authenticated with the given tokens.
// The server token is required; the account token is optional.
func NewPostmarkSender(serverToken, accountToken string) (*PostmarkSender, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: postmark server token is required", ErrNotConfigured)
	}
	return &PostmarkSender{client: postmark.NewClient(serverToken, accountToken)}, nil
}

// WithBaseURL points the client at another API root.
func (s *PostmarkSender) WithBaseURL(url string) *PostmarkSender {
	s.client.BaseURL = url
	return s
}

func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     msg.From,
		To:       msg.To,
		ReplyTo:  msg.ReplyTo,
		Subject:  msg.Subject,
		TextBody: msg.Body,
		Tag:      msg.Tag,
	})
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSend,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
