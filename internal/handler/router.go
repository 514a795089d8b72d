package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/ratelimit"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
)

// Services bundles the business logic the routes call into.
type Services struct {
	Contact    service.ContactService
	Newsletter service.NewsletterService
	Analytics  service.AnalyticsService
	Stats      service.StatsService
}

// RouterConfig carries everything NewRouter needs besides the services.
type RouterConfig struct {
	StaticDir      string
	AllowedOrigins []string
	TrustedProxies int
	Rules          config.Rules
	DB             repository.DB

	// PrivateFiles are never served from StaticDir: the SQLite database
	// and the log file.
	PrivateFiles []string

	// Limiter may be nil to disable rate limiting.
	Limiter *ratelimit.Limiter
}

// NewRouter wires every route and the middleware chain.
func NewRouter(cfg RouterConfig, svc Services) http.Handler {
	contactHandler := NewContactHandler(svc.Contact)
	newsletterHandler := NewNewsletterHandler(svc.Newsletter)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics)
	statsHandler := NewStatsHandler(svc.Stats)
	healthHandler := NewHealthHandler(cfg.DB)
	staticHandler := NewStaticHandler(cfg.StaticDir, cfg.PrivateFiles...)

	rl := NewRateLimiter(cfg.Limiter)
	limit := func(scope string, rules []ratelimit.Rule, h http.HandlerFunc) http.Handler {
		return rl.Limit(scope, rules)(h)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/contact", limit("contact", cfg.Rules.Contact, contactHandler.Submit))
	mux.Handle("POST /api/analytics", limit("analytics", cfg.Rules.Analytics, analyticsHandler.Track))
	mux.Handle("POST /api/newsletter/subscribe", limit("subscribe", cfg.Rules.Subscribe, newsletterHandler.Subscribe))
	mux.Handle("GET /api/newsletter/unsubscribe", limit("unsubscribe", cfg.Rules.Default, newsletterHandler.Unsubscribe))
	mux.Handle("POST /api/newsletter/unsubscribe", limit("unsubscribe", cfg.Rules.Default, newsletterHandler.Unsubscribe))
	mux.Handle("GET /api/stats", limit("stats", cfg.Rules.Stats, statsHandler.Get))

	mux.Handle("GET /health", limit("health", cfg.Rules.Default, healthHandler.Health))
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /{$}", limit("index", cfg.Rules.Default, staticHandler.Index))
	mux.Handle("GET /{path...}", limit("static", cfg.Rules.Default, staticHandler.File))
	mux.HandleFunc("/", NotFound)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	var h http.Handler = mux
	h = c.Handler(h)
	h = SecurityHeaders(h)
	h = RequestLogger(h)
	h = ClientIP(cfg.TrustedProxies)(h)
	h = Recoverer(h)
	return h
}
