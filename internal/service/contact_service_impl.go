package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/sanitizer"
	"github.com/portfolio/backend/internal/validator"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	submissions repository.SubmissionRepository
	subscribers repository.SubscriberRepository
	analytics   AnalyticsService
	notifier    Notifier

	now   func() time.Time
	newID func() string
}

// NewContactService creates a ContactService backed by the given repositories.
func NewContactService(
	submissions repository.SubmissionRepository,
	subscribers repository.SubscriberRepository,
	analytics AnalyticsService,
	notifier Notifier,
) ContactService {
	return &contactServiceImpl{
		submissions: submissions,
		subscribers: subscribers,
		analytics:   analytics,
		notifier:    notifier,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, in ContactInput, meta model.RequestMeta) (*ContactResult, error) {
	switch {
	case in.Name == "":
		return nil, invalid("Name is required")
	case in.Email == "":
		return nil, invalid("Email is required")
	case in.Message == "":
		return nil, invalid("Message is required")
	}
	if !validator.IsEmail(in.Email) {
		return nil, invalid("Invalid email address format")
	}

	sub := &model.ContactSubmission{
		SubmissionID:     s.newID(),
		Name:             sanitizer.Text(in.Name, sanitizer.MaxName),
		Email:            sanitizer.Text(in.Email, sanitizer.MaxEmail),
		Company:          sanitizer.Text(in.Company, sanitizer.MaxCompany),
		ProjectType:      sanitizer.Text(in.ProjectType, sanitizer.MaxProjectType),
		Budget:           sanitizer.Text(in.Budget, sanitizer.MaxBudget),
		Timeline:         sanitizer.Text(in.Timeline, sanitizer.MaxTimeline),
		Message:          sanitizer.Text(in.Message, sanitizer.MaxMessage),
		NewsletterSignup: in.Newsletter,
		Meta:             meta,
		CreatedAt:        s.now().UTC(),
		Status:           model.SubmissionPending,
	}
	if err := s.submissions.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	metrics.SubmissionsTotal.Inc()
	slog.InfoContext(ctx, "contact submission stored", "submission_id", sub.SubmissionID, "email", sub.Email)

	res := &ContactResult{
		SubmissionID: sub.SubmissionID,
		Notification: s.notifier.NotifyOperator(ctx, sub),
		AutoReply:    s.notifier.AutoReply(ctx, sub),
	}

	if sub.NewsletterSignup {
		s.enroll(ctx, sub)
	}

	data := map[string]any{
		"project_type":      sub.ProjectType,
		"budget":            sub.Budget,
		"newsletter_signup": sub.NewsletterSignup,
	}
	if err := s.analytics.Record(ctx, model.EventContactSubmission, data, meta); err != nil {
		slog.WarnContext(ctx, "record contact analytics failed", "submission_id", sub.SubmissionID, "error", err)
	}
	return res, nil
}

// enroll adds the submitter to the newsletter. An existing subscription is left as is.
func (s *contactServiceImpl) enroll(ctx context.Context, sub *model.ContactSubmission) {
	at := s.now().UTC()
	err := s.subscribers.Create(ctx, &model.Subscriber{
		Email:            sub.Email,
		Name:             sub.Name,
		SubscribedAt:     at,
		Status:           model.SubscriberActive,
		UnsubscribeToken: newUnsubscribeToken(sub.Email, at),
	})
	switch {
	case err == nil:
		metrics.SubscriptionsTotal.WithLabelValues("created").Inc()
	case errors.Is(err, repository.ErrDuplicate):
		metrics.SubscriptionsTotal.WithLabelValues("duplicate").Inc()
	default:
		metrics.SubscriptionsTotal.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "newsletter enrollment from contact form failed", "email", sub.Email, "error", err)
	}
}
