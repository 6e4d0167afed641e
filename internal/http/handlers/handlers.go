package handlers

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/loader"
	"github.com/preston-bernstein/nba-shot-charts/internal/metrics"
	"github.com/preston-bernstein/nba-shot-charts/internal/render"
)

// ChartRenderer encodes one season's shots as an image.
type ChartRenderer interface {
	RenderBytes(format render.Format, title string, made, missed []shots.Shot) ([]byte, error)
}

// Handler wires HTTP routes to the shot chart service.
type Handler struct {
	svc      *shotchart.Service
	charts   ChartRenderer
	format   render.Format
	logger   *slog.Logger
	metrics  *metrics.Recorder
	statusFn func() loader.Status
}

// NewHandler constructs a Handler. An empty format falls back to SVG.
func NewHandler(svc *shotchart.Service, charts ChartRenderer, format render.Format, logger *slog.Logger, recorder *metrics.Recorder, statusFn func() loader.Status) *Handler {
	if format == "" {
		format = render.FormatSVG
	}
	return &Handler{
		svc:      svc,
		charts:   charts,
		format:   format,
		logger:   logger,
		metrics:  recorder,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether datasets are loaded and reloads are healthy.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// NotFound answers unknown routes with a JSON error.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}
