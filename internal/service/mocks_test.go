package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/portfolio/backend/internal/mail"
	"github.com/portfolio/backend/internal/model"
)

// ---------------------------------------------------------------------------
// Function-field stubs shared by the service tests
// ---------------------------------------------------------------------------

type mockSubmissionRepository struct {
	saveFunc       func(ctx context.Context, s *model.ContactSubmission) error
	countFunc      func(ctx context.Context) (int, error)
	countSinceFunc func(ctx context.Context, since time.Time) (int, error)
	topFunc        func(ctx context.Context, limit int) ([]model.ProjectTypeCount, error)
}

func (m *mockSubmissionRepository) Save(ctx context.Context, s *model.ContactSubmission) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, s)
	}
	return nil
}

func (m *mockSubmissionRepository) FindBySubmissionID(ctx context.Context, id string) (*model.ContactSubmission, error) {
	return nil, nil
}

func (m *mockSubmissionRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockSubmissionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	if m.countSinceFunc != nil {
		return m.countSinceFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockSubmissionRepository) TopProjectTypes(ctx context.Context, limit int) ([]model.ProjectTypeCount, error) {
	if m.topFunc != nil {
		return m.topFunc(ctx, limit)
	}
	return nil, nil
}

type mockSubscriberRepository struct {
	createFunc      func(ctx context.Context, s *model.Subscriber) error
	unsubscribeFunc func(ctx context.Context, token string) (*model.Subscriber, error)
	countActiveFunc func(ctx context.Context) (int, error)
}

func (m *mockSubscriberRepository) Create(ctx context.Context, s *model.Subscriber) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}

func (m *mockSubscriberRepository) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	return nil, nil
}

func (m *mockSubscriberRepository) Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error) {
	if m.unsubscribeFunc != nil {
		return m.unsubscribeFunc(ctx, token)
	}
	return &model.Subscriber{Status: model.SubscriberUnsubscribed}, nil
}

func (m *mockSubscriberRepository) CountActive(ctx context.Context) (int, error) {
	if m.countActiveFunc != nil {
		return m.countActiveFunc(ctx)
	}
	return 0, nil
}

type mockAnalyticsRepository struct {
	saveFunc       func(ctx context.Context, e *model.AnalyticsEvent) error
	countSinceFunc func(ctx context.Context, since time.Time) (int, error)
}

func (m *mockAnalyticsRepository) Save(ctx context.Context, e *model.AnalyticsEvent) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, e)
	}
	return nil
}

func (m *mockAnalyticsRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	if m.countSinceFunc != nil {
		return m.countSinceFunc(ctx, since)
	}
	return 0, nil
}

type mockAnalyticsService struct {
	trackFunc  func(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error
	recordFunc func(ctx context.Context, eventType string, data any, meta model.RequestMeta) error
}

func (m *mockAnalyticsService) Track(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error {
	if m.trackFunc != nil {
		return m.trackFunc(ctx, eventType, data, meta)
	}
	return nil
}

func (m *mockAnalyticsService) Record(ctx context.Context, eventType string, data any, meta model.RequestMeta) error {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, eventType, data, meta)
	}
	return nil
}

type mockNotifier struct {
	notifyFunc    func(ctx context.Context, s *model.ContactSubmission) mail.Outcome
	autoReplyFunc func(ctx context.Context, s *model.ContactSubmission) mail.Outcome
}

func (m *mockNotifier) NotifyOperator(ctx context.Context, s *model.ContactSubmission) mail.Outcome {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, s)
	}
	return mail.Outcome{Kind: mail.KindOperatorNotification, Sent: true}
}

func (m *mockNotifier) AutoReply(ctx context.Context, s *model.ContactSubmission) mail.Outcome {
	if m.autoReplyFunc != nil {
		return m.autoReplyFunc(ctx, s)
	}
	return mail.Outcome{Kind: mail.KindAutoReply, Sent: true}
}
