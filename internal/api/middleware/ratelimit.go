package middleware

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
)

// RateLimitMiddleware rejects requests with 429 once the shared limiter is exhausted
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				observability.LoggerFromContext(r.Context()).Warn().
					Str("path", r.URL.Path).
					Msg("rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewLimiter builds a token bucket limiter, or nil when limiting is disabled
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 || burst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
