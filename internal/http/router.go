package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/nba-shot-charts/internal/http/handlers"
)

// NewRouter registers HTTP routes on a chi router. renderMiddleware wraps
// only the chart image route.
func NewRouter(handler *handlers.Handler, renderMiddleware ...func(nethttp.Handler) nethttp.Handler) nethttp.Handler {
	r := chi.NewRouter()
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/", handler.Home)
	r.Post("/start", handler.Start)
	r.Get("/charts", handler.Charts)
	r.With(renderMiddleware...).Get("/seasons/{season}/chart", handler.SeasonChart)

	r.Route("/api", func(r chi.Router) {
		r.Get("/teams", handler.Teams)
		r.Get("/seasons", handler.Seasons)
		r.Get("/shots", handler.Shots)
	})

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	return r
}
