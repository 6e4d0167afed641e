package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/config"
	"github.com/preston-bernstein/nba-shot-charts/internal/dataset"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/render"
	"github.com/preston-bernstein/nba-shot-charts/internal/store"
)

// shotStore is a shotchart.Store that holds resources until closed.
type shotStore interface {
	shotchart.Store
	Close() error
}

var openSQLite = func(ctx context.Context, dsn string) (shotStore, error) {
	return store.NewSQLiteStore(ctx, dsn)
}

func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) shotStore {
	backend := strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch backend {
	case store.BackendMemory, "":
		return store.NewMemoryStore()
	case store.BackendSQLite:
		st, err := openSQLite(ctx, cfg.SQLiteDSN)
		if err != nil {
			logging.Warn(logger, "sqlite store unavailable, falling back to memory",
				slog.String(logging.FieldBackend, backend), "error", err)
			return store.NewMemoryStore()
		}
		return st
	default:
		logging.Warn(logger, "unknown store backend, falling back to memory", slog.String(logging.FieldBackend, backend))
		return store.NewMemoryStore()
	}
}

func buildSources(cfg config.Config, logger *slog.Logger) []dataset.Source {
	kind := strings.ToLower(strings.TrimSpace(cfg.Datasets.Source))
	if kind != "" && kind != "csv" && kind != "fixture" {
		logging.Warn(logger, "unknown dataset source, falling back to csv", slog.String("source", kind))
		kind = "csv"
	}
	out := make([]dataset.Source, 0, len(cfg.Datasets.Seasons))
	for _, sc := range cfg.Datasets.Seasons {
		season := shots.NewSeason(sc.Label, sc.Path)
		if kind == "fixture" {
			out = append(out, dataset.NewFixtureSource(season))
			continue
		}
		out = append(out, dataset.NewRetryingSource(dataset.NewCSVSource(season), logger,
			cfg.Datasets.LoadAttempts, cfg.Datasets.LoadBackoff))
	}
	return out
}

func buildRenderer(cfg config.Config, logger *slog.Logger) (*render.Renderer, render.Format) {
	opts := render.DefaultOptions()
	opts.Width = cfg.Charts.Width
	opts.Height = cfg.Charts.Height
	opts.OuterLines = cfg.Charts.OuterLines

	format, err := render.ParseFormat(cfg.Charts.Format, render.FormatSVG)
	if err != nil {
		logging.Warn(logger, "unsupported chart format, using svg", slog.String(logging.FieldFormat, cfg.Charts.Format))
		format = render.FormatSVG
	}
	return render.New(opts), format
}
