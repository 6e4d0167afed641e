package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// TeamsResponse lists the teams offered in the dropdown.
type TeamsResponse struct {
	Teams []string `json:"teams"`
}

// SeasonsResponse lists the loaded seasons in display order.
type SeasonsResponse struct {
	Seasons []shots.Season `json:"seasons"`
}

// ShotsResponse is a filtered slice of one season table.
type ShotsResponse struct {
	Season  string       `json:"season"`
	Team    string       `json:"team"`
	Outcome string       `json:"outcome,omitempty"`
	Count   int          `json:"count"`
	Made    int          `json:"made"`
	Missed  int          `json:"missed"`
	Shots   []shots.Shot `json:"shots"`
}

// Teams returns the sorted union of team names across seasons.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.svc.Teams(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list teams", err)
		return
	}
	writeJSON(w, http.StatusOK, TeamsResponse{Teams: teams}, h.logger)
}

// Seasons returns the loaded seasons.
func (h *Handler) Seasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.svc.Seasons(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list seasons", err)
		return
	}
	writeJSON(w, http.StatusOK, SeasonsResponse{Seasons: seasons}, h.logger)
}

// Shots returns a team's rows for a season, optionally narrowed by outcome.
func (h *Handler) Shots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seasonID := q.Get("season")
	team := q.Get("team")
	if seasonID == "" || team == "" {
		writeError(w, r, http.StatusBadRequest, "season and team are required", h.logger)
		return
	}
	outcome := shots.Unknown
	if raw := strings.TrimSpace(q.Get("outcome")); raw != "" {
		outcome = shots.ParseOutcome(raw)
		if outcome == shots.Unknown {
			writeError(w, r, http.StatusBadRequest, "invalid outcome (expected made or missed)", h.logger)
			return
		}
	}

	rows, err := h.svc.FilterShots(r.Context(), seasonID, team, outcome)
	if errors.Is(err, shotchart.ErrUnknownSeason) {
		writeError(w, r, http.StatusNotFound, "season not found", h.logger)
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to load shots", err)
		return
	}

	made, missed := shots.Split(rows)
	writeJSON(w, http.StatusOK, ShotsResponse{
		Season:  seasonID,
		Team:    team,
		Outcome: string(outcome),
		Count:   len(rows),
		Made:    len(made),
		Missed:  len(missed),
		Shots:   rows,
	}, h.logger)
}
