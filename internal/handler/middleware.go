package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/portfolio/backend/internal/metrics"
	"github.com/portfolio/backend/internal/ratelimit"
)

// SecurityHeaders adds security response headers (CSP, X-Frame-Options, etc.)
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy",
			"default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline' https:; "+
				"font-src 'self' data: https:; script-src 'self' https:; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter enforces per-client sliding window ceilings on routes.
type RateLimiter struct {
	limiter *ratelimit.Limiter
}

// NewRateLimiter wraps limiter for use as HTTP middleware. A nil limiter
// disables rate limiting.
func NewRateLimiter(limiter *ratelimit.Limiter) *RateLimiter {
	return &RateLimiter{limiter: limiter}
}

// Limit returns middleware applying rules to the route named scope. Each
// scope counts separately per client. Store failures let the request through.
func (rl *RateLimiter) Limit(scope string, rules []ratelimit.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil || rl.limiter == nil || len(rules) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPFromRequest(r)
			d, err := rl.limiter.Allow(r.Context(), scope, ip, rules...)
			if err != nil {
				slog.ErrorContext(r.Context(), "rate limiter unavailable, allowing request",
					"scope", scope, "client", ip, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			limit := d.Result.Limit
			if !d.Allowed {
				limit = d.Rule.Limit
			}
			if limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(d.Result.Remaining, 0)))
			}

			if !d.Allowed {
				metrics.RateLimitRejections.WithLabelValues(scope).Inc()
				slog.WarnContext(r.Context(), "rate limit exceeded",
					"scope", scope, "client", ip, "rule", d.Rule.String())
				w.Header().Set("Retry-After", retryAfterSeconds(d.Result.RetryAfter))
				writeError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
