package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// SQLiteSubscriberRepository is the SQLite implementation of SubscriberRepository.
type SQLiteSubscriberRepository struct {
	db *sql.DB
}

// NewSQLiteSubscriberRepository creates a SQLiteSubscriberRepository backed by db.
func NewSQLiteSubscriberRepository(db *sql.DB) *SQLiteSubscriberRepository {
	return &SQLiteSubscriberRepository{db: db}
}

var _ SubscriberRepository = (*SQLiteSubscriberRepository)(nil)

func (r *SQLiteSubscriberRepository) Create(ctx context.Context, s *model.Subscriber) error {
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = model.SubscriberActive
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscribers (email, name, subscribed_at, status, unsubscribe_token)
		 VALUES (?, ?, ?, ?, ?)`,
		s.Email, s.Name, formatSQLiteTime(s.SubscribedAt), s.Status, s.UnsubscribeToken,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subscriber %s: %w", s.Email, ErrDuplicate)
		}
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteSubscriberRepository) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, subscribed_at, status, unsubscribe_token
		   FROM newsletter_subscribers WHERE email = ?`, email))
}

func (r *SQLiteSubscriberRepository) Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`UPDATE newsletter_subscribers SET status = ?
		  WHERE unsubscribe_token = ?
		  RETURNING id, email, name, subscribed_at, status, unsubscribe_token`,
		model.SubscriberUnsubscribed, token))
}

func (r *SQLiteSubscriberRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM newsletter_subscribers WHERE status = ?`, model.SubscriberActive,
	).Scan(&n)
	return n, err
}

func (r *SQLiteSubscriberRepository) scanOne(row *sql.Row) (*model.Subscriber, error) {
	var (
		s            model.Subscriber
		subscribedAt string
	)
	err := row.Scan(&s.ID, &s.Email, &s.Name, &subscribedAt, &s.Status, &s.UnsubscribeToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.SubscribedAt, err = parseSQLiteTime(subscribedAt); err != nil {
		return nil, fmt.Errorf("parse subscribed_at: %w", err)
	}
	return &s, nil
}
