package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
)

// PgAnalyticsRepository is the PostgreSQL implementation of AnalyticsRepository.
type PgAnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewPgAnalyticsRepository creates a PgAnalyticsRepository backed by the given pool.
func NewPgAnalyticsRepository(pool *pgxpool.Pool) *PgAnalyticsRepository {
	return &PgAnalyticsRepository{pool: pool}
}

var _ AnalyticsRepository = (*PgAnalyticsRepository)(nil)

func (r *PgAnalyticsRepository) Save(ctx context.Context, e *model.AnalyticsEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var data any
	if len(e.EventData) > 0 {
		data = string(e.EventData)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO analytics_events (event_type, event_data, ip_address, user_agent, referrer, created_at)
		 VALUES ($1, $2::jsonb, $3, $4, $5, $6)
		 RETURNING id`,
		e.EventType, data, e.Meta.IPAddress, e.Meta.UserAgent, e.Meta.Referrer, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *PgAnalyticsRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM analytics_events WHERE created_at >= $1`, since,
	).Scan(&n)
	return n, err
}
