package testutil

import (
	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// SampleSeason returns a season with the given label and no backing file.
func SampleSeason(label string) shots.Season {
	return shots.NewSeason(label, "")
}

// SampleShots returns made and missed shots for a team spread across the half court.
func SampleShots(team string, made, missed int) []shots.Shot {
	out := make([]shots.Shot, 0, made+missed)
	for i := 0; i < made; i++ {
		out = append(out, shots.Shot{TeamName: team, Outcome: shots.Made, X: float64(i * 10), Y: float64(i * 5)})
	}
	for i := 0; i < missed; i++ {
		out = append(out, shots.Shot{TeamName: team, Outcome: shots.Missed, X: float64(-i * 10), Y: float64(100 + i*5)})
	}
	return out
}

// SampleTable builds a season table from rows.
func SampleTable(label string, rows ...[]shots.Shot) shots.Table {
	table := shots.Table{Season: SampleSeason(label)}
	for _, r := range rows {
		table.Shots = append(table.Shots, r...)
	}
	return table
}
