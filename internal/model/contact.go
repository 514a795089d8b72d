package model

import "time"

// Submission statuses.
const (
	SubmissionPending = "pending"
)

// RequestMeta is the client information captured with every persisted row.
type RequestMeta struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Referrer  string `json:"referrer"`
}

// ContactSubmission represents one message submitted via the contact form.
// Rows are written once and never updated.
type ContactSubmission struct {
	ID               int64       `json:"-"`
	SubmissionID     string      `json:"submission_id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Company          string      `json:"company,omitempty"`
	ProjectType      string      `json:"project_type,omitempty"`
	Budget           string      `json:"budget,omitempty"`
	Timeline         string      `json:"timeline,omitempty"`
	Message          string      `json:"message"`
	NewsletterSignup bool        `json:"newsletter_signup"`
	Meta             RequestMeta `json:"meta"`
	CreatedAt        time.Time   `json:"created_at"`
	Status           string      `json:"status"` // "pending"
	ResponseSent     bool        `json:"response_sent"`
}
