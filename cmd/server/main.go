package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/mail"
	"github.com/portfolio/backend/internal/ratelimit"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "DEBUG"
	}
	closeLog, err := logging.Setup(level, cfg.LogFile)
	if err != nil {
		logging.Fatal("setup logging failed", "error", err)
	}
	defer func() { _ = closeLog() }()

	ctx := context.Background()

	dsn := cfg.Database.Path
	if cfg.Database.Driver == config.DriverPostgres {
		dsn = cfg.Database.URL
	}
	store, err := repository.Open(ctx, cfg.Database.Driver, dsn)
	if err != nil {
		logging.Fatal("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
	}
	defer store.Close()

	migrator, err := store.Migrator(slog.Default())
	if err != nil {
		logging.Fatal("create migrator failed", "error", err)
	}
	if err := migrator.Up(ctx); err != nil {
		logging.Fatal("apply migrations failed", "error", err)
	}

	limiter, err := newLimiter(ctx, cfg.RateLimit)
	if err != nil {
		logging.Fatal("create rate limiter failed", "store", cfg.RateLimit.Store, "error", err)
	}
	defer limiter.Close()

	sender, err := mail.NewSender(cfg.Mail, slog.Default())
	if err != nil {
		logging.Fatal("create mail sender failed", "driver", cfg.Mail.Driver, "error", err)
	}
	dispatcher := mail.NewDispatcher(sender, cfg.Mail.Sender, cfg.Mail.Recipient, slog.Default())

	analyticsService := service.NewAnalyticsService(store.Analytics)
	services := handler.Services{
		Contact:    service.NewContactService(store.Submissions, store.Subscribers, analyticsService, dispatcher),
		Newsletter: service.NewNewsletterService(store.Subscribers, analyticsService),
		Analytics:  analyticsService,
		Stats:      service.NewStatsService(store.Submissions, store.Subscribers, store.Analytics),
	}

	var private []string
	if cfg.Database.Driver == config.DriverSQLite {
		private = append(private, cfg.Database.Path)
	}
	if cfg.LogFile != "" {
		private = append(private, cfg.LogFile)
	}

	router := handler.NewRouter(handler.RouterConfig{
		StaticDir:      cfg.StaticDir,
		PrivateFiles:   private,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.RateLimit.TrustedProxies,
		Rules:          cfg.RateLimit.Rules(),
		Limiter:        limiter,
		DB:             store.Health,
	}, services)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"database", store.Driver(),
			"mail", cfg.Mail.Driver,
			"rate_limit_store", cfg.RateLimit.Store,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

// newLimiter selects the counter store. The in-memory store is per process;
// redis shares counters between replicas.
func newLimiter(ctx context.Context, cfg config.RateLimit) (*ratelimit.Limiter, error) {
	var store ratelimit.Store
	switch cfg.Store {
	case config.StoreRedis:
		rs, err := ratelimit.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store = rs
	default:
		store = ratelimit.NewMemoryStore()
	}
	return ratelimit.NewLimiter(store, "portfolio")
}
