package dataset

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// CSVSource reads a season table from a CSV file with a header row.
type CSVSource struct {
	season shots.Season
	open   func(path string) (io.ReadCloser, error)
}

// NewCSVSource constructs a CSV-backed source for the season.
func NewCSVSource(season shots.Season) *CSVSource {
	return &CSVSource{
		season: season,
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Season returns the season this source loads.
func (s *CSVSource) Season() shots.Season {
	return s.season
}

// Load reads the file and converts the required columns into shots.
func (s *CSVSource) Load(ctx context.Context) (shots.Table, error) {
	if err := ctx.Err(); err != nil {
		return shots.Table{}, err
	}
	f, err := s.open(s.season.Path)
	if err != nil {
		return shots.Table{}, &LoadError{Season: s.season.ID, Err: err}
	}
	defer f.Close()

	rows, err := ReadShots(f)
	if err != nil {
		return shots.Table{}, &LoadError{Season: s.season.ID, Err: err}
	}
	return shots.Table{Season: s.season, Shots: rows}, nil
}

// ReadShots parses a shot table. Extra columns are ignored; rows whose
// coordinates cannot be parsed are dropped.
func ReadShots(r io.Reader) ([]shots.Shot, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			ColumnX: series.Float,
			ColumnY: series.Float,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	names := df.Names()
	for _, col := range RequiredColumns {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	df = df.Select(RequiredColumns)
	if df.Err != nil {
		return nil, fmt.Errorf("select columns: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, ErrEmptyTable
	}

	teams := df.Col(ColumnTeam).Records()
	events := df.Col(ColumnEvent).Records()
	xs := df.Col(ColumnX).Float()
	ys := df.Col(ColumnY).Float()

	out := make([]shots.Shot, 0, len(teams))
	for i := range teams {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		out = append(out, shots.Shot{
			TeamName: teams[i],
			Outcome:  shots.ParseEventType(events[i]),
			X:        xs[i],
			Y:        ys[i],
		})
	}
	return out, nil
}
