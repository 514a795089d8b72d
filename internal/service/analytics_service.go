package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/sanitizer"
)

// AnalyticsService records analytics events.
type AnalyticsService interface {
	// Track records an event reported by a client. A missing event type is a
	// *ValidationError.
	Track(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error
	// Record stores an event emitted by the server itself. data is encoded as JSON.
	Record(ctx context.Context, eventType string, data any, meta model.RequestMeta) error
}

type analyticsServiceImpl struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService creates an AnalyticsService backed by repo.
func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsServiceImpl{repo: repo, now: time.Now}
}

func (s *analyticsServiceImpl) Track(ctx context.Context, eventType string, data json.RawMessage, meta model.RequestMeta) error {
	if eventType == "" {
		return invalid("Event type is required")
	}
	if isEmptyJSON(data) {
		data = nil
	}
	return s.save(ctx, &model.AnalyticsEvent{
		EventType: sanitizer.Text(eventType, sanitizer.MaxEventType),
		EventData: data,
		Meta:      meta,
	})
}

func (s *analyticsServiceImpl) Record(ctx context.Context, eventType string, data any, meta model.RequestMeta) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return s.save(ctx, &model.AnalyticsEvent{EventType: eventType, EventData: raw, Meta: meta})
}

// isEmptyJSON reports whether data is absent or a falsy JSON value
// (null, false, 0, "", [] or {}). Such payloads are stored as NULL.
func isEmptyJSON(data json.RawMessage) bool {
	if len(bytes.TrimSpace(data)) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

func (s *analyticsServiceImpl) save(ctx context.Context, e *model.AnalyticsEvent) error {
	e.CreatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, e); err != nil {
		return fmt.Errorf("save analytics event: %w", err)
	}
	metrics.AnalyticsEventsTotal.Inc()
	return nil
}
