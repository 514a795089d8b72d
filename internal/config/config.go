// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/portfolio/backend/internal/ratelimit"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Mail drivers.
const (
	MailSMTP     = "smtp"
	MailPostmark = "postmark"
	MailFile     = "file"
	MailNone     = "none"
)

// Rate limit stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting the server reads at startup.
type Config struct {
	Host  string `env:"HOST" envDefault:"0.0.0.0"`
	Port  int    `env:"PORT" envDefault:"5000"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFile  string `env:"LOG_FILE"`

	StaticDir      string   `env:"STATIC_DIR" envDefault:"static"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5000,https://moeedhassan.dev"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	Database  Database
	Mail      Mail
	RateLimit RateLimit
}

// Database selects and locates the store.
type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	Path   string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	URL    string `env:"DATABASE_URL"`
}

// Mail configures outbound notifications.
type Mail struct {
	Driver    string `env:"MAIL_DRIVER" envDefault:"smtp"`
	Sender    string `env:"EMAIL_ADDRESS" envDefault:"moeed@thelegend.dev"`
	Recipient string `env:"RECIPIENT_EMAIL" envDefault:"moeed@thelegend.dev"`

	SMTPServer   string        `env:"SMTP_SERVER" envDefault:"smtp.gmail.com"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPPassword string        `env:"EMAIL_PASSWORD"`
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	OutboxDir string `env:"MAIL_OUTBOX_DIR" envDefault:"outbox"`
}

// RateLimit holds the per-route ceilings in "N per unit" form.
type RateLimit struct {
	Store          string `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	TrustedProxies int    `env:"TRUSTED_PROXIES" envDefault:"0"`

	Default   string `env:"RATE_LIMIT_DEFAULT" envDefault:"200 per day; 50 per hour"`
	Contact   string `env:"RATE_LIMIT_CONTACT" envDefault:"5 per minute"`
	Subscribe string `env:"RATE_LIMIT_SUBSCRIBE" envDefault:"3 per minute"`
	Analytics string `env:"RATE_LIMIT_ANALYTICS" envDefault:"10 per minute"`
	Stats     string `env:"RATE_LIMIT_STATS" envDefault:"30 per minute"`
}

// Load reads an optional .env file and parses the environment into a Config.
// A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks driver names and rate limit expressions.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", ErrInvalidConfig, c.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: DATABASE_PATH required for sqlite", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown DATABASE_DRIVER %q", ErrInvalidConfig, c.Database.Driver)
	}

	// Nothing the server writes may be reachable through the static routes.
	if c.Database.Driver == DriverSQLite && within(c.StaticDir, c.Database.Path) {
		return fmt.Errorf("%w: DATABASE_PATH %q is inside STATIC_DIR %q", ErrInvalidConfig, c.Database.Path, c.StaticDir)
	}
	if c.LogFile != "" && within(c.StaticDir, c.LogFile) {
		return fmt.Errorf("%w: LOG_FILE %q is inside STATIC_DIR %q", ErrInvalidConfig, c.LogFile, c.StaticDir)
	}
	if c.Mail.Driver == MailFile && within(c.StaticDir, c.Mail.OutboxDir) {
		return fmt.Errorf("%w: MAIL_OUTBOX_DIR %q is inside STATIC_DIR %q", ErrInvalidConfig, c.Mail.OutboxDir, c.StaticDir)
	}

	switch c.Mail.Driver {
	case MailSMTP, MailFile, MailNone:
	case MailPostmark:
		if c.Mail.PostmarkServerToken == "" {
			return fmt.Errorf("%w: POSTMARK_SERVER_TOKEN required for postmark", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown MAIL_DRIVER %q", ErrInvalidConfig, c.Mail.Driver)
	}

	switch c.RateLimit.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: unknown RATE_LIMIT_STORE %q", ErrInvalidConfig, c.RateLimit.Store)
	}

	for name, expr := range map[string]string{
		"RATE_LIMIT_DEFAULT":   c.RateLimit.Default,
		"RATE_LIMIT_CONTACT":   c.RateLimit.Contact,
		"RATE_LIMIT_SUBSCRIBE": c.RateLimit.Subscribe,
		"RATE_LIMIT_ANALYTICS": c.RateLimit.Analytics,
		"RATE_LIMIT_STATS":     c.RateLimit.Stats,
	} {
		if _, err := ratelimit.ParseRules(expr); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}

	return nil
}

// within reports whether path is dir itself or lies below it.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Rules holds parsed rate limit rule sets.
type Rules struct {
	Default   []ratelimit.Rule
	Contact   []ratelimit.Rule
	Subscribe []ratelimit.Rule
	Analytics []ratelimit.Rule
	Stats     []ratelimit.Rule
}

// Rules parses the rate limit expressions. Validate has already checked them.
func (r RateLimit) Rules() Rules {
	return Rules{
		Default:   ratelimit.MustParseRules(r.Default),
		Contact:   ratelimit.MustParseRules(r.Contact),
		Subscribe: ratelimit.MustParseRules(r.Subscribe),
		Analytics: ratelimit.MustParseRules(r.Analytics),
		Stats:     ratelimit.MustParseRules(r.Stats),
	}
}
