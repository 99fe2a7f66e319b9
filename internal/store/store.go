// Package store persists fetched season data and rating runs in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charleschow/opp-adjust/internal/core/plays"
	"github.com/charleschow/opp-adjust/internal/telemetry"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		season INTEGER NOT NULL,
		school TEXT    NOT NULL,
		PRIMARY KEY (season, school)
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		season       INTEGER NOT NULL,
		id           TEXT    NOT NULL,
		home_team    TEXT,
		away_team    TEXT,
		neutral_site INTEGER DEFAULT 0,
		PRIMARY KEY (season, id)
	)`,
	`CREATE TABLE IF NOT EXISTS plays (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		season    INTEGER NOT NULL,
		game_id   TEXT    NOT NULL,
		home      TEXT,
		away      TEXT,
		offense   TEXT,
		defense   TEXT,
		play_type TEXT,
		stats     TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plays_season ON plays(season)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT    PRIMARY KEY,
		season     INTEGER NOT NULL,
		stat       TEXT    NOT NULL,
		created_at TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_categories (
		run_id    TEXT    NOT NULL,
		position  INTEGER NOT NULL,
		label     TEXT    NOT NULL,
		row_count INTEGER,
		penalty   REAL,
		homefield REAL,
		intercept REAL,
		error     TEXT,
		PRIMARY KEY (run_id, label)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		run_id   TEXT    NOT NULL,
		position INTEGER NOT NULL,
		team     TEXT    NOT NULL,
		category TEXT    NOT NULL,
		raw_off  REAL,
		adj_off  REAL,
		raw_def  REAL,
		adj_def  REAL,
		PRIMARY KEY (run_id, team, category)
	)`,
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	telemetry.Debugf("store: opened %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// HasSeason reports whether plays for the season are stored.
func (s *Store) HasSeason(season int) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM plays WHERE season = ?`, season).Scan(&n); err != nil {
		return false, fmt.Errorf("count plays: %w", err)
	}
	return n > 0, nil
}

// SaveSeason replaces the stored teams, games and plays of a season.
func (s *Store) SaveSeason(season int, teams []string, games []plays.Game, records []plays.PlayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"teams", "games", "plays"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE season = ?`, season); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	teamStmt, err := tx.Prepare(`INSERT OR IGNORE INTO teams (season, school) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare teams: %w", err)
	}
	defer teamStmt.Close()
	for _, t := range teams {
		if _, err := teamStmt.Exec(season, t); err != nil {
			return fmt.Errorf("insert team %q: %w", t, err)
		}
	}

	gameStmt, err := tx.Prepare(`INSERT OR REPLACE INTO games (season, id, home_team, away_team, neutral_site) VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare games: %w", err)
	}
	defer gameStmt.Close()
	for _, g := range games {
		if _, err := gameStmt.Exec(season, g.ID, g.HomeTeam, g.AwayTeam, boolToInt(g.NeutralSite)); err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}

	playStmt, err := tx.Prepare(`INSERT INTO plays (season, game_id, home, away, offense, defense, play_type, stats) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare plays: %w", err)
	}
	defer playStmt.Close()
	for _, p := range records {
		stats, err := json.Marshal(p.Values)
		if err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		if _, err := playStmt.Exec(season, p.GameID, p.Home, p.Away, p.Offense, p.Defense, p.PlayType, string(stats)); err != nil {
			return fmt.Errorf("insert play: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	telemetry.Infof("store: saved season %d  teams=%d games=%d plays=%d", season, len(teams), len(games), len(records))
	return nil
}

// LoadSeason reads back what SaveSeason stored.
func (s *Store) LoadSeason(season int) ([]string, []plays.Game, []plays.PlayRecord, error) {
	var teams []string
	rows, err := s.db.Query(`SELECT school FROM teams WHERE season = ? ORDER BY rowid`, season)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query teams: %w", err)
	}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			rows.Close()
			return nil, nil, nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	rows.Close()

	var games []plays.Game
	rows, err = s.db.Query(`SELECT id, home_team, away_team, neutral_site FROM games WHERE season = ? ORDER BY id`, season)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query games: %w", err)
	}
	for rows.Next() {
		var g plays.Game
		var neutral int
		if err := rows.Scan(&g.ID, &g.HomeTeam, &g.AwayTeam, &neutral); err != nil {
			rows.Close()
			return nil, nil, nil, fmt.Errorf("scan game: %w", err)
		}
		g.NeutralSite = neutral != 0
		games = append(games, g)
	}
	rows.Close()

	var records []plays.PlayRecord
	rows, err = s.db.Query(`SELECT game_id, home, away, offense, defense, play_type, stats FROM plays WHERE season = ? ORDER BY id`, season)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p plays.PlayRecord
		var stats string
		if err := rows.Scan(&p.GameID, &p.Home, &p.Away, &p.Offense, &p.Defense, &p.PlayType, &stats); err != nil {
			return nil, nil, nil, fmt.Errorf("scan play: %w", err)
		}
		if err := json.Unmarshal([]byte(stats), &p.Values); err != nil {
			return nil, nil, nil, fmt.Errorf("decode stats: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("read plays: %w", err)
	}
	return teams, games, records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
