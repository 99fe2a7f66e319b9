package adjust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedModel(intercept float64, coef map[string]float64, order []string) *FittedModel {
	m := &FittedModel{Penalty: 100, Intercept: intercept, index: make(map[string]int)}
	for i, col := range order {
		m.columns = append(m.columns, col)
		m.coef = append(m.coef, coef[col])
		m.index[col] = i
	}
	return m
}

func TestExtractAddsIntercept(t *testing.T) {
	m := fixedModel(0.5, map[string]float64{
		"offense_Ohio State": 0.1,
		"offense_Michigan":   -0.05,
		"defense_Ohio State": -0.2,
		"defense_Michigan":   0.15,
		"hfa":                0.04,
	}, []string{"offense_Michigan", "offense_Ohio State", "defense_Michigan", "defense_Ohio State", "hfa"})

	adj, err := Extract(m, DefaultNamespaces())
	require.NoError(t, err)

	assert.InDelta(t, 0.6, adj.Offense["Ohio State"], 1e-12)
	assert.InDelta(t, 0.45, adj.Offense["Michigan"], 1e-12)
	assert.InDelta(t, 0.3, adj.Defense["Ohio State"], 1e-12)
	assert.InDelta(t, 0.65, adj.Defense["Michigan"], 1e-12)
	assert.InDelta(t, 0.04, adj.Homefield, 1e-12, "homefield is not intercept-adjusted")
	assert.Len(t, adj.Offense, 2)
	assert.Len(t, adj.Defense, 2)
	assert.Equal(t, 0.5, adj.Intercept)
	assert.Equal(t, 100.0, adj.Penalty)
}

func TestExtractUnknownTeam(t *testing.T) {
	m := fixedModel(0, map[string]float64{"offense_A": 1, "defense_B": 1}, []string{"offense_A", "defense_B", "hfa"})
	adj, err := Extract(m, DefaultNamespaces())
	require.NoError(t, err)

	_, err = adj.OffenseFor("B")
	var unknown *UnknownTeamError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "B", unknown.Team)
	assert.Equal(t, OffenseNamespace, unknown.Namespace)

	_, err = adj.DefenseFor("A")
	require.ErrorAs(t, err, &unknown)

	v, err := adj.OffenseFor("A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestExtractNeedsHomefield(t *testing.T) {
	m := fixedModel(0, map[string]float64{"offense_A": 1}, []string{"offense_A"})
	_, err := Extract(m, DefaultNamespaces())
	assert.Error(t, err)
}

func TestAdjustedOffenseRecentred(t *testing.T) {
	// Every team has the same offense and the same defense; venue is the only
	// signal and is balanced per matchup. The team coefficients are zero, so
	// the adjusted values are the intercept alone.
	const base, home = 0.2, 0.05
	teams := []string{"A", "B", "C", "D", "E"}
	var rows []Row
	for _, o := range teams {
		for _, d := range teams {
			if o == d {
				continue
			}
			for i := 0; i < 10; i++ {
				rows = append(rows,
					Row{Offense: o, Defense: d, Homefield: 1, Value: base + home},
					Row{Offense: o, Defense: d, Homefield: -1, Value: base - home},
				)
			}
		}
	}

	res, err := Run(rows, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Offense, len(teams))
	for _, team := range teams {
		assert.InDelta(t, base, res.Offense[team], 1e-9, "offense %s", team)
		assert.InDelta(t, base, res.Defense[team], 1e-9, "defense %s", team)
	}
	assert.InDelta(t, base, res.Intercept, 1e-9)
	assert.Greater(t, res.Homefield, 0.0)
	assert.Less(t, res.Homefield, home)
}
