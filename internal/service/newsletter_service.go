package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/sanitizer"
	"github.com/portfolio/backend/internal/validator"
)

// NewsletterService manages newsletter subscriptions.
type NewsletterService interface {
	// Subscribe enrolls email. Returns ErrAlreadySubscribed for a known email
	// and *ValidationError for missing or malformed input.
	Subscribe(ctx context.Context, email, name string, meta model.RequestMeta) (*model.Subscriber, error)
	// Unsubscribe deactivates the subscription owning token. Repeating it is
	// harmless. Returns ErrSubscriptionNotFound for an unknown token.
	Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error)
}

type newsletterServiceImpl struct {
	repo      repository.SubscriberRepository
	analytics AnalyticsService
	now       func() time.Time
}

// NewNewsletterService creates a NewsletterService backed by repo.
func NewNewsletterService(repo repository.SubscriberRepository, analytics AnalyticsService) NewsletterService {
	return &newsletterServiceImpl{repo: repo, analytics: analytics, now: time.Now}
}

func (s *newsletterServiceImpl) Subscribe(ctx context.Context, email, name string, meta model.RequestMeta) (*model.Subscriber, error) {
	if email == "" {
		return nil, invalid("Email is required")
	}
	email = sanitizer.Text(email, sanitizer.MaxEmail)
	name = sanitizer.Text(name, sanitizer.MaxName)
	if !validator.IsEmail(email) {
		return nil, invalid("Invalid email address format")
	}

	at := s.now().UTC()
	sub := &model.Subscriber{
		Email:            email,
		Name:             name,
		SubscribedAt:     at,
		Status:           model.SubscriberActive,
		UnsubscribeToken: newUnsubscribeToken(email, at),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.SubscriptionsTotal.WithLabelValues("duplicate").Inc()
			return nil, ErrAlreadySubscribed
		}
		metrics.SubscriptionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	metrics.SubscriptionsTotal.WithLabelValues("created").Inc()
	slog.InfoContext(ctx, "newsletter subscription created", "email", email)

	if err := s.analytics.Record(ctx, model.EventNewsletterSubscription, map[string]string{"email": email}, meta); err != nil {
		slog.WarnContext(ctx, "record subscription analytics failed", "email", email, "error", err)
	}
	return sub, nil
}

func (s *newsletterServiceImpl) Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error) {
	if token == "" {
		return nil, invalid("Unsubscribe token is required")
	}
	sub, err := s.repo.Unsubscribe(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	slog.InfoContext(ctx, "newsletter subscription cancelled", "email", sub.Email)
	return sub, nil
}
