package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seasons (
	id       TEXT PRIMARY KEY,
	label    TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS shots (
	season_id TEXT NOT NULL,
	seq       INTEGER NOT NULL,
	team_name TEXT NOT NULL,
	outcome   TEXT NOT NULL,
	loc_x     REAL NOT NULL,
	loc_y     REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shots_season_team ON shots(season_id, team_name);
`

// SQLiteStore keeps season tables in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn with the pure-Go sqlite driver and ensures the schema exists.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SetSeason replaces all rows for the season inside one transaction.
func (s *SQLiteStore) SetSeason(ctx context.Context, season shots.Season, rows []shots.Shot) error {
	return s.SetSeasons(ctx, []shots.Table{{Season: season, Shots: rows}})
}

// SetSeasons replaces every given season inside one transaction; a failure
// rolls back all of them.
func (s *SQLiteStore) SetSeasons(ctx context.Context, tables []shots.Table) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range tables {
		if err = writeSeason(ctx, tx, table.Season, table.Shots); err != nil {
			return fmt.Errorf("season %s: %w", table.Season.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func writeSeason(ctx context.Context, tx *sql.Tx, season shots.Season, rows []shots.Shot) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO seasons (id, label, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM seasons))
		ON CONFLICT(id) DO UPDATE SET label = excluded.label`,
		season.ID, season.Label,
	); err != nil {
		return fmt.Errorf("upsert season: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shots WHERE season_id = ?`, season.ID); err != nil {
		return fmt.Errorf("clear season: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shots (season_id, seq, team_name, outcome, loc_x, loc_y)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, season.ID, i, r.TeamName, string(r.Outcome), r.X, r.Y); err != nil {
			return fmt.Errorf("insert shot %d: %w", i, err)
		}
	}
	return nil
}

// Seasons returns loaded seasons in the order they were first set.
func (s *SQLiteStore) Seasons(ctx context.Context) ([]shots.Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label FROM seasons ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	out := make([]shots.Season, 0, 2)
	for rows.Next() {
		var season shots.Season
		if err := rows.Scan(&season.ID, &season.Label); err != nil {
			return nil, err
		}
		out = append(out, season)
	}
	return out, rows.Err()
}

// Teams returns the sorted distinct team names of a season.
func (s *SQLiteStore) Teams(ctx context.Context, seasonID string) ([]string, error) {
	if err := s.ensureSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT team_name FROM shots WHERE season_id = ? ORDER BY team_name`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Shots returns the team's rows for a season in table order.
func (s *SQLiteStore) Shots(ctx context.Context, seasonID, team string) ([]shots.Shot, error) {
	if err := s.ensureSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_name, outcome, loc_x, loc_y FROM shots
		WHERE season_id = ? AND team_name = ?
		ORDER BY seq`, seasonID, team)
	if err != nil {
		return nil, fmt.Errorf("query shots: %w", err)
	}
	defer rows.Close()

	out := make([]shots.Shot, 0)
	for rows.Next() {
		var (
			shot    shots.Shot
			outcome string
		)
		if err := rows.Scan(&shot.TeamName, &outcome, &shot.X, &shot.Y); err != nil {
			return nil, err
		}
		shot.Outcome = shots.Outcome(outcome)
		out = append(out, shot)
	}
	return out, rows.Err()
}

// Count returns the number of rows stored for a season.
func (s *SQLiteStore) Count(ctx context.Context, seasonID string) (int, error) {
	if err := s.ensureSeason(ctx, seasonID); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shots WHERE season_id = ?`, seasonID).Scan(&n)
	return n, err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSeason(ctx context.Context, seasonID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM seasons WHERE id = ?`, seasonID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSeasonNotFound
	}
	return err
}
