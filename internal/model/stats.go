package model

import "time"

// ProjectTypeCount is one entry of the popular project types ranking.
type ProjectTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Stats is the read-only summary served by GET /api/stats.
type Stats struct {
	TotalSubmissions      int                `json:"total_submissions"`
	RecentSubmissions     int                `json:"recent_submissions"`
	NewsletterSubscribers int                `json:"newsletter_subscribers"`
	RecentAnalyticsEvents int                `json:"recent_analytics_events"`
	PopularProjectTypes   []ProjectTypeCount `json:"popular_project_types"`
	LastUpdated           time.Time          `json:"last_updated"`
}
