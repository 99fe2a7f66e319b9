package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/charleschow/opp-adjust/internal/core/ratings"
)

// RunInfo describes a stored ratings run.
type RunInfo struct {
	ID        string
	Season    int
	Stat      string
	CreatedAt time.Time
}

// SaveRun stores a ratings table under a new run id. Values are stored
// unrounded; missing cells are NULL.
func (s *Store) SaveRun(season int, stat string, t *ratings.Table) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs (id, season, stat, created_at) VALUES (?,?,?,?)`,
		id, season, stat, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, label := range t.Categories {
		sum := t.Summaries[label]
		var errText *string
		if sum.Err != nil {
			e := sum.Err.Error()
			errText = &e
		}
		if _, err := tx.Exec(
			`INSERT INTO run_categories (run_id, position, label, row_count, penalty, homefield, intercept, error)
			 VALUES (?,?,?,?,?,?,?,?)`,
			id, i, label, sum.Rows, sum.Penalty, sum.Homefield, sum.Intercept, errText,
		); err != nil {
			return "", fmt.Errorf("insert category %s: %w", label, err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO ratings (run_id, position, team, category, raw_off, adj_off, raw_def, adj_def)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", fmt.Errorf("prepare ratings: %w", err)
	}
	defer stmt.Close()
	for pos, tr := range t.Teams {
		for _, label := range t.Categories {
			c := tr.Cells[label]
			if _, err := stmt.Exec(id, pos, tr.Team, label, c.RawOff, c.AdjOff, c.RawDef, c.AdjDef); err != nil {
				return "", fmt.Errorf("insert rating %s/%s: %w", tr.Team, label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(limit int) ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT id, season, stat, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		var created string
		if err := rows.Scan(&r.ID, &r.Season, &r.Stat, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadRun rebuilds the ratings table of a stored run.
func (s *Store) LoadRun(id string) (*ratings.Table, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %s not found", id)
	}

	t := &ratings.Table{Summaries: make(map[string]ratings.CategorySummary)}
	rows, err := s.db.Query(`SELECT label, row_count, penalty, homefield, intercept, error
		FROM run_categories WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	for rows.Next() {
		var sum ratings.CategorySummary
		var errText sql.NullString
		if err := rows.Scan(&sum.Label, &sum.Rows, &sum.Penalty, &sum.Homefield, &sum.Intercept, &errText); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if errText.Valid {
			sum.Err = errors.New(errText.String)
		}
		t.Categories = append(t.Categories, sum.Label)
		t.Summaries[sum.Label] = sum
	}
	rows.Close()

	rows, err = s.db.Query(`SELECT team, category, raw_off, adj_off, raw_def, adj_def
		FROM ratings WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var team, category string
		var rawOff, adjOff, rawDef, adjDef sql.NullFloat64
		if err := rows.Scan(&team, &category, &rawOff, &adjOff, &rawDef, &adjDef); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		i, ok := index[team]
		if !ok {
			i = len(t.Teams)
			index[team] = i
			t.Teams = append(t.Teams, ratings.TeamRating{Team: team, Cells: make(map[string]ratings.Cell)})
		}
		t.Teams[i].Cells[category] = ratings.Cell{
			RawOff: nullable(rawOff),
			AdjOff: nullable(adjOff),
			RawDef: nullable(rawDef),
			AdjDef: nullable(adjDef),
		}
	}
	return t, rows.Err()
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
