package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/render"
)

// SeasonChart renders one team's chart for one season as SVG or PNG.
func (h *Handler) SeasonChart(w http.ResponseWriter, r *http.Request) {
	seasonID := chi.URLParam(r, "season")
	team := r.URL.Query().Get("team")
	if team == "" {
		writeError(w, r, http.StatusBadRequest, "missing team", h.logger)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"), h.format)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unsupported format (expected svg or png)", h.logger)
		return
	}

	c, err := h.svc.SeasonChart(r.Context(), seasonID, team)
	if errors.Is(err, shotchart.ErrUnknownSeason) {
		writeError(w, r, http.StatusNotFound, "season not found", h.logger)
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load shots", err)
		return
	}
	if c.Empty() {
		writeError(w, r, http.StatusNotFound, "no shots for team in season", h.logger)
		return
	}

	start := time.Now()
	body, err := h.charts.RenderBytes(format, c.Title(), c.Made, c.Missed)
	took := time.Since(start)
	h.metrics.RecordChartRender(seasonID, string(format), took, err)

	logger := loggerFromContext(r, h.logger)
	if errors.Is(err, render.ErrNoShots) {
		writeError(w, r, http.StatusNotFound, "no shots for team in season", h.logger)
		return
	}
	if err != nil {
		logging.Error(logger, "chart render failed", err, logging.ChartAttrs(seasonID, team)...)
		writeError(w, r, http.StatusInternalServerError, "failed to render chart", h.logger)
		return
	}
	logging.Info(logger, "rendered chart", append(logging.ChartAttrs(seasonID, team),
		slog.String(logging.FieldFormat, string(format)),
		slog.Int(logging.FieldCount, len(c.Made)+len(c.Missed)),
		slog.Int64(logging.FieldDurationMS, took.Milliseconds()),
	)...)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
