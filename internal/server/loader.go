package server

import (
	"context"

	"github.com/preston-bernstein/nba-shot-charts/internal/loader"
)

// DatasetLoader defines the loader behavior needed by the server.
type DatasetLoader interface {
	Load(ctx context.Context) error
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() loader.Status
}
