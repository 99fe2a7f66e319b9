package ratings

import (
	"fmt"
	"math"
	"strconv"
)

// Roles used in column names.
const (
	RoleOff = "Off"
	RoleDef = "Def"
)

// Cell holds one team's values for one category. A nil field is a missing
// value: the team had no qualifying plays in that role, or the category fit
// failed.
type Cell struct {
	RawOff *float64
	AdjOff *float64
	RawDef *float64
	AdjDef *float64
}

// TeamRating is one output row keyed by team name.
type TeamRating struct {
	Team  string
	Cells map[string]Cell // by category label
}

// CategorySummary describes one category's fitting pass.
type CategorySummary struct {
	Label     string
	Rows      int
	Penalty   float64
	Homefield float64
	Intercept float64
	Err       error
}

// Table is the wide ratings table: one row per team in the universe, four
// columns per category.
type Table struct {
	Categories []string
	Teams      []TeamRating
	Summaries  map[string]CategorySummary
}

// Failures returns the per-category errors of the run.
func (t *Table) Failures() map[string]error {
	out := make(map[string]error)
	for label, s := range t.Summaries {
		if s.Err != nil {
			out[label] = s.Err
		}
	}
	return out
}

// ColumnName is raw<Role><Category> or adj<Role><Category>.
func ColumnName(adjusted bool, role, category string) string {
	if adjusted {
		return "adj" + role + category
	}
	return "raw" + role + category
}

// Columns lists the value columns in output order: per category rawOff,
// adjOff, rawDef, adjDef.
func (t *Table) Columns() []string {
	cols := make([]string, 0, 4*len(t.Categories))
	for _, c := range t.Categories {
		cols = append(cols,
			ColumnName(false, RoleOff, c),
			ColumnName(true, RoleOff, c),
			ColumnName(false, RoleDef, c),
			ColumnName(true, RoleDef, c),
		)
	}
	return cols
}

// Values returns a row's values in Columns order, unrounded.
func (tr TeamRating) Values(categories []string) []*float64 {
	out := make([]*float64, 0, 4*len(categories))
	for _, c := range categories {
		cell := tr.Cells[c]
		out = append(out, cell.RawOff, cell.AdjOff, cell.RawDef, cell.AdjDef)
	}
	return out
}

// Lookup finds a team's row.
func (t *Table) Lookup(team string) (TeamRating, bool) {
	for _, tr := range t.Teams {
		if tr.Team == team {
			return tr, true
		}
	}
	return TeamRating{}, false
}

// Value returns the unrounded value of a named column for a team; nil when the
// team or value is missing.
func (t *Table) Value(team, column string) *float64 {
	tr, ok := t.Lookup(team)
	if !ok {
		return nil
	}
	for i, col := range t.Columns() {
		if col == column {
			return tr.Values(t.Categories)[i]
		}
	}
	return nil
}

// Records renders the table for presentation: a header row, then one row per
// team with values rounded to three decimals and missing values left empty.
func (t *Table) Records() [][]string {
	header := append([]string{"team"}, t.Columns()...)
	out := [][]string{header}
	for _, tr := range t.Teams {
		rec := []string{tr.Team}
		for _, v := range tr.Values(t.Categories) {
			rec = append(rec, FormatValue(v))
		}
		out = append(out, rec)
	}
	return out
}

// Round3 rounds to thousandths.
func Round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // no "-0.000"
	}
	return r
}

// FormatValue renders a rounded value, or "" when missing.
func FormatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(Round3(*v), 'f', 3, 64)
}

func (s CategorySummary) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s: failed (%d rows): %v", s.Label, s.Rows, s.Err)
	}
	return fmt.Sprintf("%s: homefield %.3f (penalty %g, %d rows)", s.Label, Round3(s.Homefield), s.Penalty, s.Rows)
}
