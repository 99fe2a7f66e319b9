package plays

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleschow/opp-adjust/internal/core/adjust"
)

func TestHomefield(t *testing.T) {
	tests := []struct {
		name           string
		home, off, def string
		neutral        bool
		want           float64
		ok             bool
	}{
		{"home offense", "Alabama", "Alabama", "Auburn", false, 1, true},
		{"home defense", "Alabama", "Auburn", "Alabama", false, -1, true},
		{"neutral", "Alabama", "Alabama", "Auburn", true, 0, true},
		{"home not in play", "Georgia", "Alabama", "Auburn", false, 0, false},
		{"neutral overrides unknown home", "Georgia", "Alabama", "Auburn", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Homefield(tt.home, tt.off, tt.def, tt.neutral)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func play(game, home, away, off, def, typ string, ppa float64) PlayRecord {
	return PlayRecord{
		GameID: game, Home: home, Away: away,
		Offense: off, Defense: def, PlayType: typ,
		Values: map[string]float64{"ppa": ppa},
	}
}

func TestPrepareFiltersAndDerivesHomefield(t *testing.T) {
	universe := []string{"Alabama", "Auburn", "Georgia"}
	games := GameIndex([]Game{
		{ID: "1", HomeTeam: "Alabama", AwayTeam: "Auburn"},
		{ID: "2", HomeTeam: "Georgia", AwayTeam: "Auburn", NeutralSite: true},
		{ID: "3", HomeTeam: "Alabama", AwayTeam: "Samford"},
	})

	noValue := play("1", "Alabama", "Auburn", "Alabama", "Auburn", "Rush", 0)
	noValue.Values = map[string]float64{}
	nan := play("1", "Alabama", "Auburn", "Auburn", "Alabama", "Rush", math.NaN())

	records := []PlayRecord{
		play("1", "Alabama", "Auburn", "Alabama", "Auburn", "Rush", 0.5),
		play("1", "Alabama", "Auburn", "Auburn", "Alabama", "Pass Reception", -0.2),
		play("2", "Georgia", "Auburn", "Georgia", "Auburn", "Rush", 0.1),
		play("3", "Alabama", "Samford", "Alabama", "Samford", "Rush", 1.4),
		noValue,
		nan,
		play("1", "Alabama", "Auburn", "Alabama", "Alabama", "Rush", 0.3),
		play("1", "Alabama", "Auburn", "Alabama", "Auburn", "Timeout", 0.0),
	}

	p := Prepare(records, games, universe, "ppa", Category{Label: "All"})
	assert.Equal(t, []adjust.Row{
		{Offense: "Alabama", Homefield: 1, Defense: "Auburn", Value: 0.5},
		{Offense: "Auburn", Homefield: -1, Defense: "Alabama", Value: -0.2},
		{Offense: "Georgia", Homefield: 0, Defense: "Auburn", Value: 0.1},
		{Offense: "Alabama", Homefield: 1, Defense: "Auburn", Value: 0.0},
	}, p.Rows)
	assert.Equal(t, 1, p.Dropped[DropNotInUniverse])
	assert.Equal(t, 2, p.Dropped[DropMissingValue])
	assert.Equal(t, 1, p.Dropped[DropSameTeam])
	assert.Zero(t, p.Dropped[DropCategory])
}

func TestPrepareCategory(t *testing.T) {
	universe := []string{"Alabama", "Auburn"}
	games := GameIndex([]Game{{ID: "1", HomeTeam: "Alabama", AwayTeam: "Auburn"}})
	records := []PlayRecord{
		play("1", "Alabama", "Auburn", "Alabama", "Auburn", "Rush", 0.5),
		play("1", "Alabama", "Auburn", "Alabama", "Auburn", "Sack", -1.1),
		play("1", "Alabama", "Auburn", "Auburn", "Alabama", "Rushing Touchdown", 2.0),
		play("1", "Alabama", "Auburn", "Auburn", "Alabama", "Punt", 0.0),
	}

	cats := DefaultCategories()
	require.Len(t, cats, 3)

	pass := Prepare(records, games, universe, "ppa", cats[1])
	require.Len(t, pass.Rows, 1)
	assert.Equal(t, -1.1, pass.Rows[0].Value)
	assert.Equal(t, 3, pass.Dropped[DropCategory])

	rush := Prepare(records, games, universe, "ppa", cats[2])
	require.Len(t, rush.Rows, 2)
	assert.Equal(t, -1.0, rush.Rows[1].Homefield)

	all := Prepare(records, games, universe, "ppa", cats[0])
	assert.Len(t, all.Rows, 4)
}

func TestPrepareUnknownGameNeedsHomeInPlay(t *testing.T) {
	universe := []string{"Alabama", "Auburn", "Georgia"}
	records := []PlayRecord{
		play("9", "Georgia", "Alabama", "Alabama", "Auburn", "Rush", 0.5),
	}
	p := Prepare(records, nil, universe, "ppa", Category{Label: "All"})
	assert.Empty(t, p.Rows)
	assert.Equal(t, 1, p.Dropped[DropNoVenue])
}

func TestNormalizeTeam(t *testing.T) {
	decomposed := "San Jose\u0301 State"
	composed := "San Jos\u00e9 State"
	assert.Equal(t, composed, NormalizeTeam(decomposed))
	assert.Equal(t, "Texas A&M", NormalizeTeam("  Texas \t A&M "))
	assert.Equal(t, "", NormalizeTeam(""))
}

func TestPrepareJoinsNormalizedNames(t *testing.T) {
	universe := []string{"San Jos\u00e9 State", "Fresno State"}
	records := []PlayRecord{
		play("1", "San Jose\u0301 State", "Fresno  State", "San Jose\u0301 State", "Fresno State", "Rush", 0.3),
	}
	p := Prepare(records, nil, universe, "ppa", Category{Label: "All"})
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "San Jos\u00e9 State", p.Rows[0].Offense)
	assert.Equal(t, 1.0, p.Rows[0].Homefield)
}

func TestNormalizeUniverse(t *testing.T) {
	got := NormalizeUniverse([]string{"Army", " Navy", "Army", "", "Air  Force"})
	assert.Equal(t, []string{"Army", "Navy", "Air Force"}, got)
}

func TestCategoryMatches(t *testing.T) {
	assert.True(t, Category{Label: "All"}.Matches("Kickoff"))
	c := Category{Label: "Rush", PlayTypes: RushPlayTypes}
	assert.True(t, c.Matches("Rushing Touchdown"))
	assert.False(t, c.Matches("Pass Reception"))
}
