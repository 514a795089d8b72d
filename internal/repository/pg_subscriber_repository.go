package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
)

// PgSubscriberRepository is the PostgreSQL implementation of SubscriberRepository.
type PgSubscriberRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubscriberRepository creates a PgSubscriberRepository backed by the given pool.
func NewPgSubscriberRepository(pool *pgxpool.Pool) *PgSubscriberRepository {
	return &PgSubscriberRepository{pool: pool}
}

var _ SubscriberRepository = (*PgSubscriberRepository)(nil)

func (r *PgSubscriberRepository) Create(ctx context.Context, s *model.Subscriber) error {
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = model.SubscriberActive
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO newsletter_subscribers (email, name, subscribed_at, status, unsubscribe_token)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		s.Email, s.Name, s.SubscribedAt, s.Status, s.UnsubscribeToken,
	).Scan(&s.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("subscriber %s: %w", s.Email, ErrDuplicate)
	}
	return err
}

func (r *PgSubscriberRepository) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	return scanPgSubscriber(r.pool.QueryRow(ctx,
		`SELECT id, email, name, subscribed_at, status, unsubscribe_token
		   FROM newsletter_subscribers WHERE email = $1`, email))
}

func (r *PgSubscriberRepository) Unsubscribe(ctx context.Context, token string) (*model.Subscriber, error) {
	return scanPgSubscriber(r.pool.QueryRow(ctx,
		`UPDATE newsletter_subscribers SET status = $1
		  WHERE unsubscribe_token = $2
		  RETURNING id, email, name, subscribed_at, status, unsubscribe_token`,
		model.SubscriberUnsubscribed, token))
}

func (r *PgSubscriberRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM newsletter_subscribers WHERE status = $1`, model.SubscriberActive,
	).Scan(&n)
	return n, err
}

func scanPgSubscriber(row pgx.Row) (*model.Subscriber, error) {
	var s model.Subscriber
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &s.Status, &s.UnsubscribeToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
