package store

import (
	"context"
	"slices"
	"sync"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

type seasonRows struct {
	season shots.Season
	byTeam map[string][]shots.Shot
	teams  []string
	total  int
}

// MemoryStore keeps a thread-safe copy of every loaded season in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	seasons map[string]*seasonRows
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seasons: make(map[string]*seasonRows),
	}
}

// SetSeason replaces the rows of a season, indexing them by team.
func (s *MemoryStore) SetSeason(ctx context.Context, season shots.Season, rows []shots.Shot) error {
	return s.SetSeasons(ctx, []shots.Table{{Season: season, Shots: rows}})
}

// SetSeasons replaces every given season under a single lock, so readers see
// either all of the old tables or all of the new ones.
func (s *MemoryStore) SetSeasons(ctx context.Context, tables []shots.Table) error {
	_ = ctx
	entries := make([]*seasonRows, 0, len(tables))
	for _, table := range tables {
		entries = append(entries, indexSeason(table.Season, table.Shots))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		id := entry.season.ID
		if _, ok := s.seasons[id]; !ok {
			s.order = append(s.order, id)
		}
		s.seasons[id] = entry
	}
	return nil
}

func indexSeason(season shots.Season, rows []shots.Shot) *seasonRows {
	entry := &seasonRows{
		season: season,
		byTeam: make(map[string][]shots.Shot),
		total:  len(rows),
	}
	for _, r := range rows {
		if _, ok := entry.byTeam[r.TeamName]; ok {
			continue
		}
		entry.teams = append(entry.teams, r.TeamName)
		entry.byTeam[r.TeamName] = nil
	}
	slices.Sort(entry.teams)
	for _, team := range entry.teams {
		entry.byTeam[team] = shots.FilterByTeam(rows, team)
	}
	return entry
}

// Seasons returns loaded seasons in the order they were first set.
func (s *MemoryStore) Seasons(ctx context.Context) ([]shots.Season, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shots.Season, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.seasons[id].season)
	}
	return out, nil
}

// Teams returns the sorted distinct team names of a season.
func (s *MemoryStore) Teams(ctx context.Context, seasonID string) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.seasons[seasonID]
	if !ok {
		return nil, ErrSeasonNotFound
	}
	return slices.Clone(entry.teams), nil
}

// Shots returns a copy of the team's rows for a season.
func (s *MemoryStore) Shots(ctx context.Context, seasonID, team string) ([]shots.Shot, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.seasons[seasonID]
	if !ok {
		return nil, ErrSeasonNotFound
	}
	rows := entry.byTeam[team]
	out := make([]shots.Shot, len(rows))
	copy(out, rows)
	return out, nil
}

// Count returns the number of rows stored for a season.
func (s *MemoryStore) Count(ctx context.Context, seasonID string) (int, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.seasons[seasonID]
	if !ok {
		return 0, ErrSeasonNotFound
	}
	return entry.total, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }
