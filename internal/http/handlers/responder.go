package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/preston-bernstein/nba-shot-charts/internal/http/middleware"
	"github.com/preston-bernstein/nba-shot-charts/internal/http/requestutil"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func writePage(w http.ResponseWriter, r *http.Request, status int, page templ.Component, logger *slog.Logger) {
	templ.Handler(page,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			logging.Error(logger, "failed to render page", err, slog.String(logging.FieldPath, r.URL.Path))
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "failed to render page", http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
