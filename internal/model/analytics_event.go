package model

import (
	"encoding/json"
	"time"
)

// Analytics event types emitted by the server itself.
const (
	EventContactSubmission      = "contact_form_submission"
	EventNewsletterSubscription = "newsletter_subscription"
)

// AnalyticsEvent is one append-only entry in the analytics log.
type AnalyticsEvent struct {
	ID        int64           `json:"-"`
	EventType string          `json:"event_type"`
	EventData json.RawMessage `json:"event_data,omitempty"`
	Meta      RequestMeta     `json:"meta"`
	CreatedAt time.Time       `json:"created_at"`
}
