package dataset

import (
	"context"
	"math"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// FixtureSource returns a deterministic table useful for local bootstrapping and tests.
type FixtureSource struct {
	season shots.Season
	teams  []string
}

// NewFixtureSource builds a fixture for the season with a few shots per team.
func NewFixtureSource(season shots.Season, teams ...string) *FixtureSource {
	if len(teams) == 0 {
		teams = []string{"Boston Celtics", "Golden State Warriors", "Los Angeles Lakers", "Miami Heat"}
	}
	return &FixtureSource{season: season, teams: teams}
}

// Season returns the season this source loads.
func (f *FixtureSource) Season() shots.Season {
	return f.season
}

// Load generates shots on a fan from the rim out to the three-point arc.
func (f *FixtureSource) Load(ctx context.Context) (shots.Table, error) {
	if err := ctx.Err(); err != nil {
		return shots.Table{}, err
	}
	out := make([]shots.Shot, 0, len(f.teams)*12)
	for ti, team := range f.teams {
		for i := 0; i < 12; i++ {
			angle := float64(i) * math.Pi / 11
			radius := 40.0 + float64((i+ti)%4)*65
			outcome := shots.Made
			if (i+ti)%3 == 0 {
				outcome = shots.Missed
			}
			out = append(out, shots.Shot{
				TeamName: team,
				Outcome:  outcome,
				X:        math.Round(radius*math.Cos(angle)*10) / 10,
				Y:        math.Round(radius*math.Sin(angle)*10) / 10,
			})
		}
	}
	return shots.Table{Season: f.season, Shots: out}, nil
}
