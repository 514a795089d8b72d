package model

import "time"

// Subscriber statuses.
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber is an email enrolled in the newsletter.
type Subscriber struct {
	ID               int64     `json:"-"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	SubscribedAt     time.Time `json:"subscribed_at"`
	Status           string    `json:"status"` // "active" | "unsubscribed"
	UnsubscribeToken string    `json:"-"`
}
