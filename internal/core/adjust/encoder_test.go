package adjust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeColumns(t *testing.T) {
	rows := []Row{
		{Offense: "B", Homefield: 1, Defense: "A", Value: 0.4},
		{Offense: "A", Homefield: -1, Defense: "B", Value: -0.1},
		{Offense: "A", Homefield: 0, Defense: "C", Value: 0.2},
	}

	dm, err := Encode(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"offense_A", "offense_B", "defense_A", "defense_B", "defense_C", "hfa"}, dm.Columns())
	r, c := dm.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 6, c)
	assert.Equal(t, []float64{0.4, -0.1, 0.2}, dm.Target())

	d := dm.Dense()
	assert.Equal(t, []float64{0, 1, 1, 0, 0, 1}, d.RawRowView(0))
	assert.Equal(t, []float64{1, 0, 0, 1, 0, -1}, d.RawRowView(1))
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0}, d.RawRowView(2))

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, d.At(i, j), dm.At(i, j), "entry %d,%d", i, j)
		}
	}
}

func TestEncodeKeepsEveryLevel(t *testing.T) {
	rows := []Row{
		{Offense: "A", Defense: "B", Value: 1},
		{Offense: "B", Defense: "A", Value: 2},
		{Offense: "A", Defense: "C", Value: 3},
	}
	dm, err := Encode(rows)
	require.NoError(t, err)

	// C never has the ball: defense column only.
	assert.Equal(t, []string{"A", "B"}, dm.OffenseTeams())
	assert.Equal(t, []string{"A", "B", "C"}, dm.DefenseTeams())

	// No reference level dropped: each block sums to one on every row.
	d := dm.Dense()
	for i := 0; i < 3; i++ {
		row := d.RawRowView(i)
		assert.Equal(t, 1.0, row[0]+row[1], "offense block row %d", i)
		assert.Equal(t, 1.0, row[2]+row[3]+row[4], "defense block row %d", i)
	}
}

func TestEncodeRejectsBadRows(t *testing.T) {
	_, err := Encode(nil)
	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)

	cases := map[string]Row{
		"same team":     {Offense: "A", Defense: "A", Value: 1},
		"empty team":    {Offense: "", Defense: "A", Value: 1},
		"bad homefield": {Offense: "A", Defense: "B", Homefield: 2, Value: 1},
		"nan value":     {Offense: "A", Defense: "B", Value: math.NaN()},
		"inf value":     {Offense: "A", Defense: "B", Value: math.Inf(1)},
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Encode([]Row{row})
			assert.Error(t, err)
		})
	}
}
