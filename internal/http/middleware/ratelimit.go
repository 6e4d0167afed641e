package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
)

// NewLimiter builds a token bucket, or nil when rps is not positive.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimit rejects requests with 429 once the shared limiter runs dry.
// A nil limiter lets every request through.
func RateLimit(limiter *rate.Limiter, recorder *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}
			path := normalizePath(r.URL.Path)
			recorder.RecordRateLimited(path)
			logging.Warn(logging.FromContext(r.Context(), nil), "rate limit exceeded", slog.String(logging.FieldPath, path))

			body := map[string]string{"error": "rate limit exceeded"}
			if reqID := RequestIDFromContext(r.Context()); reqID != "" {
				body["requestId"] = reqID
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(body)
		})
	}
}
