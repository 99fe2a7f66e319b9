package cfbd

import (
	"strconv"

	"github.com/charleschow/opp-adjust/internal/core/plays"
)

// CalendarWeek is one entry of /calendar.
type CalendarWeek struct {
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SeasonType string `json:"seasonType"`
}

// Play is one entry of /plays. PPA is null for plays the provider does not rate.
type Play struct {
	ID       flexID   `json:"id"`
	GameID   flexID   `json:"gameId"`
	Offense  string   `json:"offense"`
	Defense  string   `json:"defense"`
	Home     string   `json:"home"`
	Away     string   `json:"away"`
	PlayType string   `json:"playType"`
	PPA      *float64 `json:"ppa"`
}

// Game is one entry of /games.
type Game struct {
	ID          flexID `json:"id"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
	SeasonType  string `json:"seasonType"`
	NeutralSite bool   `json:"neutralSite"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
}

// Team is one entry of /teams/fbs.
type Team struct {
	ID     int    `json:"id"`
	School string `json:"school"`
}

// flexID accepts ids sent as numbers or strings.
type flexID string

func (j *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*j = flexID(s)
		return nil
	}
	if string(b) == "null" {
		*j = ""
		return nil
	}
	*j = flexID(b)
	return nil
}

// StatPPA is the stat name under which PPA is stored on a PlayRecord.
const StatPPA = "ppa"

func (p Play) Record() plays.PlayRecord {
	rec := plays.PlayRecord{
		GameID:   string(p.GameID),
		Home:     p.Home,
		Away:     p.Away,
		Offense:  p.Offense,
		Defense:  p.Defense,
		PlayType: p.PlayType,
		Values:   make(map[string]float64, 1),
	}
	if p.PPA != nil {
		rec.Values[StatPPA] = *p.PPA
	}
	return rec
}

func (g Game) Domain() plays.Game {
	return plays.Game{
		ID:          string(g.ID),
		HomeTeam:    g.HomeTeam,
		AwayTeam:    g.AwayTeam,
		NeutralSite: g.NeutralSite,
	}
}
