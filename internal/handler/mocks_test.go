package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, in service.ContactInput, meta model.RequestMeta) (*service.ContactResult, error)
}

func (m *mockContactService) Submit(ctx context.Context, in service.ContactInput, meta model.RequestMeta) (*service.ContactResult, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, in, meta)
	}
	return &service.ContactResult{SubmissionID: "id"}, nil
}

type mockNewsletterService struct {
	subscribeFunc   func(ctx context.Context, email, name string, meta model.RequestMeta) (*model.Subscriber, error)
	unsubscribeFunc func(ctx context.Context, token string) (*model.Subscriber, error)
}

func (m *mockNewsletterService) Subscribe(ctx context.Context, email, name string, meta model.RequestMeta) (*model.Subscriber, error) {
	if m.subscribeFunc != nil {
		return m.subscribeFunc(ctx, email, name, meta)
	}
	return &model.Subscriber{Email: email}, nil
}

func (m *mockNewsletterService) Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error) {
	if m.unsubscribeFunc != nil {
		return m.unsubscribeFunc(ctx, token)
	}
	return &model.Subscriber{}, nil
}

type mockAnalyticsService struct {
	trackFunc func(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error
}

func (m *mockAnalyticsService) Track(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error {
	if m.trackFunc != nil {
		return m.trackFunc(ctx, eventType, data, meta)
	}
	return nil
}

func (m *mockAnalyticsService) Record(ctx context.Context, eventType string, data any, meta model.RequestMeta) error {
	return nil
}

type mockStatsService struct {
	getFunc func(ctx context.Context) (*model.Stats, error)
}

func (m *mockStatsService) Get(ctx context.Context) (*model.Stats, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx)
	}
	return &model.Stats{PopularProjectTypes: []model.ProjectTypeCount{}}, nil
}

type mockDB struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// decodeEnvelope reads the {success, message} body of rec.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v (body %q)", err, rec.Body.String())
	}
	return env
}
