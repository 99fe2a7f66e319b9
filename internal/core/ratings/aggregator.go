// Package ratings joins raw and opponent-adjusted team values for one or more
// statistic categories onto a team universe.
package ratings

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charleschow/opp-adjust/internal/core/adjust"
	"github.com/charleschow/opp-adjust/internal/telemetry"
)

// Input is one statistic category: its label (used in column names) and the
// rows to fit.
type Input struct {
	Label string
	Rows  []adjust.Row
}

type categoryResult struct {
	rawOff  map[string]float64
	rawDef  map[string]float64
	adj     *adjust.Result
	summary CategorySummary
}

// Build runs one fitting pass per category and left-joins the raw averages
// and adjusted values onto the universe. Categories are independent and run
// concurrently. A failed category is reported in the table's summaries and
// leaves its adjusted cells missing; the other categories are unaffected.
func Build(universe []string, inputs []Input, opts adjust.Options) (*Table, error) {
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.Label == "" {
			return nil, fmt.Errorf("ratings: empty category label")
		}
		if seen[in.Label] {
			return nil, fmt.Errorf("ratings: duplicate category %q", in.Label)
		}
		seen[in.Label] = true
	}

	results := make([]categoryResult, len(inputs))
	var g errgroup.Group
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			results[i] = runCategory(in, opts)
			return nil
		})
	}
	_ = g.Wait()

	t := &Table{Summaries: make(map[string]CategorySummary, len(inputs))}
	for i, in := range inputs {
		t.Categories = append(t.Categories, in.Label)
		t.Summaries[in.Label] = results[i].summary
		if results[i].summary.Err != nil {
			telemetry.Warnf("ratings: %s", results[i].summary)
		} else {
			telemetry.Infof("ratings: %s", results[i].summary)
		}
	}

	for _, team := range dedupe(universe) {
		tr := TeamRating{Team: team, Cells: make(map[string]Cell, len(inputs))}
		for i, in := range inputs {
			tr.Cells[in.Label] = results[i].cell(team)
		}
		t.Teams = append(t.Teams, tr)
	}
	return t, nil
}

func runCategory(in Input, opts adjust.Options) categoryResult {
	telemetry.Metrics.ActiveFits.Inc()
	defer telemetry.Metrics.ActiveFits.Dec()

	cr := categoryResult{summary: CategorySummary{Label: in.Label, Rows: len(in.Rows)}}
	cr.rawOff, cr.rawDef = rawMeans(in.Rows)

	start := time.Now()
	res, err := adjust.Run(in.Rows, opts)
	telemetry.Metrics.FitLatency.Record(time.Since(start))
	if err != nil {
		telemetry.Metrics.FitsFailed.Inc()
		cr.summary.Err = fmt.Errorf("category %s: %w", in.Label, err)
		return cr
	}
	telemetry.Metrics.FitsCompleted.Inc()

	cr.adj = res
	cr.summary.Penalty = res.Penalty
	cr.summary.Homefield = res.Homefield
	cr.summary.Intercept = res.Intercept
	return cr
}

// cell joins one team onto this category's results. A miss is a nil value,
// never zero.
func (cr categoryResult) cell(team string) Cell {
	var c Cell
	if v, ok := cr.rawOff[team]; ok {
		c.RawOff = &v
	}
	if v, ok := cr.rawDef[team]; ok {
		c.RawDef = &v
	}
	if cr.adj == nil {
		return c
	}
	c.AdjOff = joined(cr.adj.OffenseFor(team))
	c.AdjDef = joined(cr.adj.DefenseFor(team))
	return c
}

func joined(v float64, err error) *float64 {
	var unknown *adjust.UnknownTeamError
	if errors.As(err, &unknown) {
		return nil
	}
	if err != nil {
		telemetry.Warnf("ratings: join: %v", err)
		return nil
	}
	return &v
}

// rawMeans averages the stat value per team on offense and on defense.
func rawMeans(rows []adjust.Row) (off, def map[string]float64) {
	type acc struct {
		sum float64
		n   int
	}
	offAcc := make(map[string]*acc)
	defAcc := make(map[string]*acc)
	add := func(m map[string]*acc, team string, v float64) {
		a, ok := m[team]
		if !ok {
			a = &acc{}
			m[team] = a
		}
		a.sum += v
		a.n++
	}
	for _, r := range rows {
		add(offAcc, r.Offense, r.Value)
		add(defAcc, r.Defense, r.Value)
	}

	off = make(map[string]float64, len(offAcc))
	for t, a := range offAcc {
		off[t] = a.sum / float64(a.n)
	}
	def = make(map[string]float64, len(defAcc))
	for t, a := range defAcc {
		def[t] = a.sum / float64(a.n)
	}
	return off, def
}

func dedupe(teams []string) []string {
	seen := make(map[string]bool, len(teams))
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
