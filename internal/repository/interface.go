package repository

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// SubmissionRepository persists contact form submissions.
type SubmissionRepository interface {
	// Save inserts s and populates s.ID.
	Save(ctx context.Context, s *model.ContactSubmission) error
	FindBySubmissionID(ctx context.Context, submissionID string) (*model.ContactSubmission, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	// TopProjectTypes ranks non-empty project types by frequency, most common first.
	TopProjectTypes(ctx context.Context, limit int) ([]model.ProjectTypeCount, error)
}

// AnalyticsRepository persists analytics events.
type AnalyticsRepository interface {
	Save(ctx context.Context, e *model.AnalyticsEvent) error
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// SubscriberRepository persists newsletter subscribers.
type SubscriberRepository interface {
	// Create inserts s. It returns ErrDuplicate when the email is already enrolled.
	Create(ctx context.Context, s *model.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*model.Subscriber, error)
	// Unsubscribe marks the subscriber owning token as unsubscribed.
	// It returns ErrNotFound for an unknown token.
	Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error)
	CountActive(ctx context.Context) (int, error)
}
