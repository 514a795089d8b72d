package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/storage"
)

// FileSender writes each message as an .eml file instead of sending it.
// Useful for local development and for inspecting rendered mail.
type FileSender struct {
	store storage.Storage
	now   func() time.Time
}

// NewFileSender returns a sender writing into store.
func NewFileSender(store storage.Storage) *FileSender {
	return &FileSender{store: store, now: time.Now}
}

func (s *FileSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return errors.Join(ErrFailedToSend, err)
	}

	tag := msg.Tag
	if tag == "" {
		tag = "message"
	}
	key := fmt.Sprintf("%s-%s-%s.eml",
		s.now().UTC().Format("20060102T150405Z"), strings.ReplaceAll(tag, "/", "_"), uuid.NewString())
	if _, err := s.store.Save(ctx, key, &buf); err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	return nil
}
