package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillforge/learn-engine/internal/ratelimit"
)

// identityMiddleware resolves an optional bearer token into a user id on the
// request context. Tokens are HS256, verified against the shared secret; an
// invalid or absent token leaves the request anonymous rather than rejecting
// it, since most read endpoints are public.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.jwtSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.jwtSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			slog.Debug("ignoring invalid bearer token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			slog.Debug("bearer token has no subject")
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), sub)))
	})
}

// rateLimitMiddleware applies a fixed-window limit keyed by client IP and
// route class. Over the limit responds 429 with a Retry-After hint.
func (s *Server) rateLimitMiddleware(limiter *ratelimit.Limiter, class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := class + ":" + clientIP(r)

			allowed, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Fail open; a broken counter backend must not take the API down
				slog.Warn("rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address without the port. RealIP
// middleware has already folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
