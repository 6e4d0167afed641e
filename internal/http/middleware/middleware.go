package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"

	"github.com/preston-bernstein/nba-shot-charts/internal/http/requestutil"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
)

// LoggingMiddleware wraps the handler with request logging, request ID support, and metrics.
func LoggingMiddleware(baseLogger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := requestutil.SanitizeRequestID(r.Header.Get(requestutil.HeaderRequestID))
		w.Header().Set(requestutil.HeaderRequestID, reqID)

		logger := baseLogger.With(
			slog.String(logging.FieldRequestID, reqID),
			slog.String(logging.FieldMethod, r.Method),
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)

		ctx := logging.WithLogger(r.Context(), logger)
		ctx = withRequestID(ctx, reqID)
		r = r.WithContext(ctx)

		m := httpsnoop.CaptureMetrics(next, w, r)

		if recorder != nil {
			recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), m.Code, m.Duration)
		}

		logger.Info("request complete",
			slog.Int(logging.FieldStatusCode, m.Code),
			slog.Int64(logging.FieldDurationMS, m.Duration.Milliseconds()),
			slog.Int64("bytes", m.Written),
		)
	})
}

// RequestIDFromContext extracts the request ID stored by the logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type requestIDKey struct{}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	path, _, _ = strings.Cut(path, "?")
	switch {
	case path == "/", path == "/start", path == "/charts", path == "/health", path == "/ready":
		return path
	case strings.HasPrefix(path, "/api/"):
		return path
	case strings.HasPrefix(path, "/seasons/") && strings.HasSuffix(path, "/chart"):
		return "/seasons/:season/chart"
	default:
		return "other"
	}
}
