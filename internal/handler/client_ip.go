package handler

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/portfolio/backend/internal/model"
)

type clientIPKey struct{}

// ClientIP resolves the caller's address once per request and stores it in
// the request context. With trustedProxyCount > 0 the address is read from
// the rightmost trusted position in X-Forwarded-For to prevent spoofing.
func ClientIP(trustedProxyCount int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r, trustedProxyCount)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPKey{}, ip)))
		})
	}
}

func resolveClientIP(r *http.Request, trustedProxyCount int) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		// The rightmost entry added by our infrastructure is at
		// index len(parts) - trustedProxyCount.
		idx := len(parts) - trustedProxyCount
		if idx >= 0 && idx < len(parts) {
			if ip := strings.TrimSpace(parts[idx]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientIPFromRequest returns the address stored by ClientIP, falling back to
// the socket peer when the middleware is not installed.
func clientIPFromRequest(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok {
		return ip
	}
	return resolveClientIP(r, 0)
}

// requestMeta captures the client information persisted with every row.
func requestMeta(r *http.Request) model.RequestMeta {
	return model.RequestMeta{
		IPAddress: clientIPFromRequest(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}
