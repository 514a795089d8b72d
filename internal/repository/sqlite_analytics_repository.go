package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// SQLiteAnalyticsRepository is the SQLite implementation of AnalyticsRepository.
type SQLiteAnalyticsRepository struct {
	db *sql.DB
}

// NewSQLiteAnalyticsRepository creates a SQLiteAnalyticsRepository backed by db.
func NewSQLiteAnalyticsRepository(db *sql.DB) *SQLiteAnalyticsRepository {
	return &SQLiteAnalyticsRepository{db: db}
}

var _ AnalyticsRepository = (*SQLiteAnalyticsRepository)(nil)

func (r *SQLiteAnalyticsRepository) Save(ctx context.Context, e *model.AnalyticsEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var data any
	if len(e.EventData) > 0 {
		data = string(e.EventData)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO analytics_events (event_type, event_data, ip_address, user_agent, referrer, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventType, data, e.Meta.IPAddress, e.Meta.UserAgent, e.Meta.Referrer, formatSQLiteTime(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteAnalyticsRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analytics_events WHERE created_at >= ?`, formatSQLiteTime(since),
	).Scan(&n)
	return n, err
}
