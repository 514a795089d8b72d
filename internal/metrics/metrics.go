package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Rate limiting metrics
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	// Mail metrics
	MailDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_mail_dispatch_total",
			Help: "Total number of outbound mail attempts",
		},
		[]string{"kind", "result"},
	)

	// Domain metrics
	SubmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_submissions_total",
			Help: "Total number of persisted contact submissions",
		},
	)

	SubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_newsletter_subscriptions_total",
			Help: "Total number of newsletter subscription attempts",
		},
		[]string{"result"},
	)

	AnalyticsEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_analytics_events_total",
			Help: "Total number of recorded analytics events",
		},
	)
)
