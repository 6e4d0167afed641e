package shotchart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
	"github.com/preston-bernstein/nba-shot-charts/internal/store"
)

var (
	// ErrUnknownSeason is returned for season IDs that were never loaded.
	ErrUnknownSeason = errors.New("unknown season")
	// ErrUnknownTeam is returned when a team has no rows in any season.
	ErrUnknownTeam = errors.New("unknown team")
)

// Store defines the contract for persisting and retrieving season tables.
type Store interface {
	SetSeasons(ctx context.Context, tables []shots.Table) error
	Seasons(ctx context.Context) ([]shots.Season, error)
	Teams(ctx context.Context, seasonID string) ([]string, error)
	Shots(ctx context.Context, seasonID, team string) ([]shots.Shot, error)
	Count(ctx context.Context, seasonID string) (int, error)
}

// SeasonChart is one team's shots for one season, split by outcome.
type SeasonChart struct {
	Season shots.Season
	Team   string
	Made   []shots.Shot
	Missed []shots.Shot
}

// Empty reports whether there is nothing to plot; such charts are skipped.
func (c SeasonChart) Empty() bool {
	return len(c.Made) == 0 && len(c.Missed) == 0
}

// Title is the heading drawn above the chart.
func (c SeasonChart) Title() string {
	return fmt.Sprintf("Shot Chart for %s (%s)", c.Team, c.Season.Label)
}

// Service coordinates shot chart queries using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ReplaceSeasons swaps the rows of every given season in one store write.
func (s *Service) ReplaceSeasons(ctx context.Context, tables []shots.Table) error {
	return s.store.SetSeasons(ctx, tables)
}

// Seasons returns the loaded seasons in display order.
func (s *Service) Seasons(ctx context.Context) ([]shots.Season, error) {
	return s.store.Seasons(ctx)
}

// Season looks up a loaded season by ID.
func (s *Service) Season(ctx context.Context, id string) (shots.Season, error) {
	seasons, err := s.store.Seasons(ctx)
	if err != nil {
		return shots.Season{}, err
	}
	for _, season := range seasons {
		if season.ID == id {
			return season, nil
		}
	}
	return shots.Season{}, fmt.Errorf("%w: %s", ErrUnknownSeason, id)
}

// Teams returns the sorted union of team names across all seasons.
func (s *Service) Teams(ctx context.Context) ([]string, error) {
	seasons, err := s.store.Seasons(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, 32)
	for _, season := range seasons {
		teams, err := s.store.Teams(ctx, season.ID)
		if err != nil {
			return nil, s.mapErr(err, season.ID)
		}
		for _, team := range teams {
			if _, ok := seen[team]; ok {
				continue
			}
			seen[team] = struct{}{}
			out = append(out, team)
		}
	}
	slices.Sort(out)
	return out, nil
}

// DefaultTeam is the first team of the dropdown, or "" when nothing is loaded.
func (s *Service) DefaultTeam(ctx context.Context) (string, error) {
	teams, err := s.Teams(ctx)
	if err != nil || len(teams) == 0 {
		return "", err
	}
	return teams[0], nil
}

// HasTeam reports whether any season has rows for team.
func (s *Service) HasTeam(ctx context.Context, team string) (bool, error) {
	teams, err := s.Teams(ctx)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(teams, team)
	return found, nil
}

// ResolveTeam picks the team to chart: the default team when requested is
// empty, otherwise requested itself if any season has rows for it. Unknown
// teams yield ErrUnknownTeam. An empty result with a nil error means nothing
// is loaded.
func (s *Service) ResolveTeam(ctx context.Context, requested string) (string, error) {
	if requested == "" {
		return s.DefaultTeam(ctx)
	}
	ok, err := s.HasTeam(ctx, requested)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTeam, requested)
	}
	return requested, nil
}

// SeasonChart returns the made/missed split of a team's shots for one season.
func (s *Service) SeasonChart(ctx context.Context, seasonID, team string) (SeasonChart, error) {
	season, err := s.Season(ctx, seasonID)
	if err != nil {
		return SeasonChart{}, err
	}
	rows, err := s.store.Shots(ctx, season.ID, team)
	if err != nil {
		return SeasonChart{}, s.mapErr(err, season.ID)
	}
	made, missed := shots.Split(rows)
	return SeasonChart{Season: season, Team: team, Made: made, Missed: missed}, nil
}

// Charts returns one SeasonChart per loaded season, in season order.
func (s *Service) Charts(ctx context.Context, team string) ([]SeasonChart, error) {
	seasons, err := s.store.Seasons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SeasonChart, 0, len(seasons))
	for _, season := range seasons {
		c, err := s.SeasonChart(ctx, season.ID, team)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FilterShots returns a team's rows for a season, narrowed to outcome unless
// outcome is shots.Unknown.
func (s *Service) FilterShots(ctx context.Context, seasonID, team string, outcome shots.Outcome) ([]shots.Shot, error) {
	if _, err := s.Season(ctx, seasonID); err != nil {
		return nil, err
	}
	rows, err := s.store.Shots(ctx, seasonID, team)
	if err != nil {
		return nil, s.mapErr(err, seasonID)
	}
	if outcome == shots.Unknown {
		return rows, nil
	}
	return shots.FilterByOutcome(rows, outcome), nil
}

// RowCount returns the number of rows loaded for a season.
func (s *Service) RowCount(ctx context.Context, seasonID string) (int, error) {
	n, err := s.store.Count(ctx, seasonID)
	if err != nil {
		return 0, s.mapErr(err, seasonID)
	}
	return n, nil
}

func (s *Service) mapErr(err error, seasonID string) error {
	if errors.Is(err, store.ErrSeasonNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownSeason, seasonID)
	}
	return err
}
