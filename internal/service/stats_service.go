package service

import (
	"context"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/repository"
)

const (
	recentSubmissionsWindow = 30 * 24 * time.Hour
	recentAnalyticsWindow   = 7 * 24 * time.Hour
	popularProjectTypes     = 5
)

// StatsService builds the aggregate statistics snapshot.
type StatsService interface {
	Get(ctx context.Context) (*model.Stats, error)
}

type statsServiceImpl struct {
	submissions repository.SubmissionRepository
	subscribers repository.SubscriberRepository
	analytics   repository.AnalyticsRepository
	now         func() time.Time
}

// NewStatsService creates a StatsService reading from the given repositories.
func NewStatsService(
	submissions repository.SubmissionRepository,
	subscribers repository.SubscriberRepository,
	analytics repository.AnalyticsRepository,
) StatsService {
	return &statsServiceImpl{
		submissions: submissions,
		subscribers: subscribers,
		analytics:   analytics,
		now:         time.Now,
	}
}

func (s *statsServiceImpl) Get(ctx context.Context) (*model.Stats, error) {
	now := s.now().UTC()
	st := &model.Stats{LastUpdated: now}
	var err error

	if st.TotalSubmissions, err = s.submissions.Count(ctx); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	if st.RecentSubmissions, err = s.submissions.CountSince(ctx, now.Add(-recentSubmissionsWindow)); err != nil {
		return nil, fmt.Errorf("count recent submissions: %w", err)
	}
	if st.NewsletterSubscribers, err = s.subscribers.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	if st.RecentAnalyticsEvents, err = s.analytics.CountSince(ctx, now.Add(-recentAnalyticsWindow)); err != nil {
		return nil, fmt.Errorf("count recent analytics: %w", err)
	}
	if st.PopularProjectTypes, err = s.submissions.TopProjectTypes(ctx, popularProjectTypes); err != nil {
		return nil, fmt.Errorf("popular project types: %w", err)
	}
	if st.PopularProjectTypes == nil {
		st.PopularProjectTypes = []model.ProjectTypeCount{}
	}
	return st, nil
}
