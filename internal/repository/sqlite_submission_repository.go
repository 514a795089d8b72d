package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// SQLiteSubmissionRepository is the SQLite implementation of SubmissionRepository.
type SQLiteSubmissionRepository struct {
	db *sql.DB
}

// NewSQLiteSubmissionRepository creates a SQLiteSubmissionRepository backed by db.
func NewSQLiteSubmissionRepository(db *sql.DB) *SQLiteSubmissionRepository {
	return &SQLiteSubmissionRepository{db: db}
}

var _ SubmissionRepository = (*SQLiteSubmissionRepository)(nil)

func (r *SQLiteSubmissionRepository) Save(ctx context.Context, s *model.ContactSubmission) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = model.SubmissionPending
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_submissions
		   (submission_id, name, email, company, project_type, budget, timeline, message,
		    newsletter_signup, ip_address, user_agent, referrer, created_at, status, response_sent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SubmissionID, s.Name, s.Email, s.Company, s.ProjectType, s.Budget, s.Timeline, s.Message,
		s.NewsletterSignup, s.Meta.IPAddress, s.Meta.UserAgent, s.Meta.Referrer,
		formatSQLiteTime(s.CreatedAt), s.Status, s.ResponseSent,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("submission %s: %w", s.SubmissionID, ErrDuplicate)
		}
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteSubmissionRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*model.ContactSubmission, error) {
	var (
		s         model.ContactSubmission
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, submission_id, name, email, company, project_type, budget, timeline, message,
		        newsletter_signup, ip_address, user_agent, referrer, created_at, status, response_sent
		   FROM contact_submissions WHERE submission_id = ?`, submissionID,
	).Scan(&s.ID, &s.SubmissionID, &s.Name, &s.Email, &s.Company, &s.ProjectType, &s.Budget, &s.Timeline,
		&s.Message, &s.NewsletterSignup, &s.Meta.IPAddress, &s.Meta.UserAgent, &s.Meta.Referrer,
		&createdAt, &s.Status, &s.ResponseSent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSubmissionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n)
	return n, err
}

func (r *SQLiteSubmissionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_submissions WHERE created_at >= ?`, formatSQLiteTime(since),
	).Scan(&n)
	return n, err
}

func (r *SQLiteSubmissionRepository) TopProjectTypes(ctx context.Context, limit int) ([]model.ProjectTypeCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_type, COUNT(*) AS n
		   FROM contact_submissions
		  WHERE project_type <> ''
		  GROUP BY project_type
		  ORDER BY n DESC, project_type ASC
		  LIMIT ?`, limit)
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
