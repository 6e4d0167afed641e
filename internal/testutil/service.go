package testutil

import (
	"context"

	"github.com/preston-bernstein/nba-shot-charts/internal/app/shotchart"
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/store"
)

// NewServiceWithTables builds a shot chart service backed by an in-memory store preloaded with tables.
func NewServiceWithTables(tables ...shots.Table) *shotchart.Service {
	svc := shotchart.NewService(store.NewMemoryStore())
	// MemoryStore never fails a write.
	_ = svc.ReplaceSeasons(context.Background(), tables)
	return svc
}

// NewTwoSeasonService preloads 2010-11 and 2022-23 with a few teams, one of
// which only appears in the later season.
func NewTwoSeasonService() *shotchart.Service {
	return NewServiceWithTables(
		SampleTable("2010-11",
			SampleShots("Boston Celtics", 3, 2),
			SampleShots("New Jersey Nets", 2, 1),
		),
		SampleTable("2022-23",
			SampleShots("Boston Celtics", 2, 2),
			SampleShots("Brooklyn Nets", 1, 3),
		),
	)
}
