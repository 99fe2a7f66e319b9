// Package plays turns provider play-by-play and game records into model rows.
package plays

import (
	"math"
	"slices"

	"github.com/charleschow/opp-adjust/internal/core/adjust"
)

// PlayRecord is one play as delivered by the stats provider. Values holds the
// numeric per-play stats by name (e.g. "ppa"); a missing key is a missing value.
type PlayRecord struct {
	GameID   string
	Home     string
	Away     string
	Offense  string
	Defense  string
	PlayType string
	Values   map[string]float64
}

// Game carries the venue information needed for the homefield indicator.
type Game struct {
	ID          string
	HomeTeam    string
	AwayTeam    string
	NeutralSite bool
}

// Category selects plays by type. An empty PlayTypes list keeps every play.
type Category struct {
	Label     string   `yaml:"label"`
	PlayTypes []string `yaml:"play_types"`
}

func (c Category) Matches(playType string) bool {
	return len(c.PlayTypes) == 0 || slices.Contains(c.PlayTypes, playType)
}

// Why a play was left out of the model.
const (
	DropMissingValue  = "missing_value"
	DropNotInUniverse = "not_in_universe"
	DropSameTeam      = "same_team"
	DropNoVenue       = "no_venue"
	DropCategory      = "category"
)

// Prepared is the result of preparing one category.
type Prepared struct {
	Category Category
	Rows     []adjust.Row
	Dropped  map[string]int
}

// Homefield returns +1 when the home team is on offense, -1 when it is on
// defense, and 0 at a neutral site. ok is false when the home team is not part
// of the play and the site is not neutral.
func Homefield(home, offense, defense string, neutral bool) (float64, bool) {
	switch {
	case neutral:
		return 0, true
	case home == offense:
		return 1, true
	case home == defense:
		return -1, true
	}
	return 0, false
}

// Prepare filters plays to games between universe members, drops plays
// without the stat value, derives the homefield indicator and keeps the plays
// that match the category.
func Prepare(records []PlayRecord, games map[string]Game, universe []string, stat string, cat Category) Prepared {
	members := make(map[string]bool, len(universe))
	for _, t := range universe {
		members[NormalizeTeam(t)] = true
	}

	p := Prepared{Category: cat, Dropped: make(map[string]int)}
	for _, rec := range records {
		if !cat.Matches(rec.PlayType) {
			p.Dropped[DropCategory]++
			continue
		}
		home := NormalizeTeam(rec.Home)
		off := NormalizeTeam(rec.Offense)
		def := NormalizeTeam(rec.Defense)

		if !members[home] || !members[off] || !members[def] {
			p.Dropped[DropNotInUniverse]++
			continue
		}
		if rec.Away != "" && !members[NormalizeTeam(rec.Away)] {
			p.Dropped[DropNotInUniverse]++
			continue
		}
		if off == def {
			p.Dropped[DropSameTeam]++
			continue
		}
		v, ok := rec.Values[stat]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			p.Dropped[DropMissingValue]++
			continue
		}

		g, known := games[rec.GameID]
		hfa, ok := Homefield(home, off, def, known && g.NeutralSite)
		if !ok {
			p.Dropped[DropNoVenue]++
			continue
		}

		p.Rows = append(p.Rows, adjust.Row{
			Offense:   off,
			Homefield: hfa,
			Defense:   def,
			Value:     v,
		})
	}
	return p
}

// GameIndex keys games by id.
func GameIndex(games []Game) map[string]Game {
	out := make(map[string]Game, len(games))
	for _, g := range games {
		out[g.ID] = g
	}
	return out
}

// NormalizeUniverse normalises and de-duplicates team names, keeping order.
func NormalizeUniverse(teams []string) []string {
	seen := make(map[string]bool, len(teams))
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		n := NormalizeTeam(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
