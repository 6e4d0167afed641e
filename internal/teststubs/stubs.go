package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

// StubSource is a test double for dataset.Source.
type StubSource struct {
	SeasonVal shots.Season
	Rows      []shots.Shot
	Err       error
	Calls     atomic.Int32
	Notify    chan struct{}

	mu sync.Mutex
}

// Season returns the configured season.
func (s *StubSource) Season() shots.Season {
	return s.SeasonVal
}

// Load returns the configured rows and error while tracking calls.
func (s *StubSource) Load(ctx context.Context) (shots.Table, error) {
	_ = ctx
	s.mu.Lock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	rows, err := s.Rows, s.Err
	s.mu.Unlock()
	s.Calls.Add(1)
	if err != nil {
		return shots.Table{}, err
	}
	return shots.Table{Season: s.SeasonVal, Shots: rows}, nil
}

// SetErr swaps the error returned by later loads.
func (s *StubSource) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// StubReplacer records replaced season tables.
type StubReplacer struct {
	mu       sync.Mutex
	Replaced map[string]shots.Table // keyed by season ID
	Batches  int
	Err      error
}

// ReplaceSeasons records the tables for verification in tests. An error
// records nothing.
func (r *StubReplacer) ReplaceSeasons(ctx context.Context, tables []shots.Table) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.Replaced == nil {
		r.Replaced = make(map[string]shots.Table)
	}
	for _, table := range tables {
		r.Replaced[table.Season.ID] = table
	}
	r.Batches++
	return nil
}

// BatchCount returns how many ReplaceSeasons calls succeeded.
func (r *StubReplacer) BatchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Batches
}

// Table returns the recorded table for a season.
func (r *StubReplacer) Table(seasonID string) (shots.Table, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.Replaced[seasonID]
	return t, ok
}
