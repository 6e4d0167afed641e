package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// Column names of the shot tables.
const (
	ColumnTeam  = "TEAM_NAME"
	ColumnEvent = "EVENT_TYPE"
	ColumnX     = "LOC_X"
	ColumnY     = "LOC_Y"
)

// RequiredColumns lists the columns every season table must carry.
var RequiredColumns = []string{ColumnTeam, ColumnEvent, ColumnX, ColumnY}

var (
	// ErrMissingColumn is returned when a table lacks one of RequiredColumns.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyTable is returned when a table has a header but no rows could be read.
	ErrEmptyTable = errors.New("table has no rows")
)

// Source loads one season's shot table.
type Source interface {
	Season() shots.Season
	Load(ctx context.Context) (shots.Table, error)
}

// LoadError ties a load failure to the season that produced it.
type LoadError struct {
	Season string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load season %s: %v", e.Season, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AsLoadError attempts to unwrap an error into a LoadError.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
