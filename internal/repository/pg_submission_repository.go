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

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

// Ensure PgSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Save inserts a new contact_submissions row and populates s.ID from the
// RETURNING clause.
func (r *PgSubmissionRepository) Save(ctx context.Context, s *model.ContactSubmission) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = model.SubmissionPending
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions
		   (submission_id, name, email, company, project_type, budget, timeline, message,
		    newsletter_signup, ip_address, user_agent, referrer, created_at, status, response_sent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		s.SubmissionID, s.Name, s.Email, s.Company, s.ProjectType, s.Budget, s.Timeline, s.Message,
		s.NewsletterSignup, s.Meta.IPAddress, s.Meta.UserAgent, s.Meta.Referrer,
		s.CreatedAt, s.Status, s.ResponseSent,
	).Scan(&s.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("submission %s: %w", s.SubmissionID, ErrDuplicate)
	}
	return err
}

func (r *PgSubmissionRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*model.ContactSubmission, error) {
	var s model.ContactSubmission
	err := r.pool.QueryRow(ctx,
		`SELECT id, submission_id, name, email, company, project_type, budget, timeline, message,
		        newsletter_signup, ip_address, user_agent, referrer, created_at, status, response_sent
		   FROM contact_submissions WHERE submission_id = $1`, submissionID,
	).Scan(&s.ID, &s.SubmissionID, &s.Name, &s.Email, &s.Company, &s.ProjectType, &s.Budget, &s.Timeline,
		&s.Message, &s.NewsletterSignup, &s.Meta.IPAddress, &s.Meta.UserAgent, &s.Meta.Referrer,
		&s.CreatedAt, &s.Status, &s.ResponseSent)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgSubmissionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n)
	return n, err
}

func (r *PgSubmissionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contact_submissions WHERE created_at >= $1`, since,
	).Scan(&n)
	return n, err
}

func (r *PgSubmissionRepository) TopProjectTypes(ctx context.Context, limit int) ([]model.ProjectTypeCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT project_type, COUNT(*) AS n
		   FROM contact_submissions
		  WHERE project_type <> ''
		  GROUP BY project_type
		  ORDER BY n DESC, project_type ASC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.ProjectTypeCount{}
	for rows.Next() {
		var c model.ProjectTypeCount
		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
