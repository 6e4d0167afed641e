package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/views"
)

// The info page is shown until the visitor presses "Get Started"; the
// choice is remembered in a cookie.
const (
	PageCookie   = "page"
	PageMainApp  = "main_app"
	chartsPath   = "/charts"
	cookieMaxAge = 30 * 24 * 60 * 60
)

// Home renders the info page, or sends returning visitors to the charts.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(PageCookie); err == nil && c.Value == PageMainApp {
		http.Redirect(w, r, chartsPath, http.StatusSeeOther)
		return
	}
	seasons, err := h.svc.Seasons(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list seasons", err)
		return
	}
	labels := make([]string, 0, len(seasons))
	for _, s := range seasons {
		labels = append(labels, s.Label)
	}
	writePage(w, r, http.StatusOK, views.HomePage(views.HomePageData{Seasons: labels}), h.logger)
}

// Start flips the page flag and sends the visitor to the charts.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     PageCookie,
		Value:    PageMainApp,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, chartsPath, http.StatusSeeOther)
}

// Charts renders the team picker with one chart per season that has shots.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(r, h.logger)

	requested := r.URL.Query().Get("team")
	team, err := h.svc.ResolveTeam(ctx, requested)
	if errors.Is(err, shotchart.ErrUnknownTeam) {
		writePage(w, r, http.StatusNotFound,
			views.NotFoundPage(views.NotFoundPageData{Message: fmt.Sprintf("No shots recorded for team %q.", requested)}), h.logger)
		return
	}
	if err != nil {
		h.internalError(w, r, "failed to resolve team", err)
		return
	}
	if team == "" {
		writePage(w, r, http.StatusOK, views.ChartPage(views.ChartPageData{}), h.logger)
		return
	}
	teams, err := h.svc.Teams(ctx)
	if err != nil {
		h.internalError(w, r, "failed to list teams", err)
		return
	}

	charts, err := h.svc.Charts(ctx, team)
	if err != nil {
		h.internalError(w, r, "failed to build charts", err)
		return
	}
	data := views.ChartPageData{Teams: teams, Selected: team}
	for _, c := range charts {
		if c.Empty() {
			logging.Info(logger, "skipping empty season chart", logging.ChartAttrs(c.Season.ID, team)...)
			continue
		}
		data.Charts = append(data.Charts, views.ChartImage{
			Title: c.Title(),
			Src:   chartURL(c.Season.ID, team, string(h.format)),
		})
	}
	writePage(w, r, http.StatusOK, views.ChartPage(data), h.logger)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, shotchart.ErrUnknownSeason) {
		status = http.StatusNotFound
	}
	logging.Error(loggerFromContext(r, h.logger), msg, err)
	writeError(w, r, status, msg, h.logger)
}

func chartURL(seasonID, team, format string) string {
	q := url.Values{}
	q.Set("team", team)
	q.Set("format", format)
	return "/seasons/" + url.PathEscape(seasonID) + "/chart?" + q.Encode()
}
