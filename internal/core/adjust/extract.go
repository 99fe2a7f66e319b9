package adjust

import (
	"fmt"
	"strings"
)

// Namespaces names the column groups in a fitted model.
type Namespaces struct {
	Offense   string
	Defense   string
	Homefield string
}

// DefaultNamespaces matches the column names produced by Encode.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Offense:   OffenseNamespace,
		Defense:   DefenseNamespace,
		Homefield: HomefieldColumn,
	}
}

// Adjusted holds per-team opponent- and homefield-adjusted values.
type Adjusted struct {
	Offense   map[string]float64
	Defense   map[string]float64
	Homefield float64 // raw coefficient, not intercept-adjusted
	Intercept float64
	Penalty   float64
}

// Extract turns model coefficients into per-team adjusted values. A team's
// value is its coefficient plus the intercept: the intercept carries the
// shared baseline that no single indicator level can hold on its own.
func Extract(m *FittedModel, ns Namespaces) (Adjusted, error) {
	if m == nil {
		return Adjusted{}, fmt.Errorf("extract: nil model")
	}

	adj := Adjusted{
		Offense:   make(map[string]float64),
		Defense:   make(map[string]float64),
		Intercept: m.Intercept,
		Penalty:   m.Penalty,
	}
	offPrefix := ns.Offense + "_"
	defPrefix := ns.Defense + "_"

	var sawHomefield bool
	for i, col := range m.columns {
		coef := m.coef[i]
		if col == ns.Homefield {
			adj.Homefield = coef
			sawHomefield = true
			continue
		}
		if team, ok := strings.CutPrefix(col, offPrefix); ok {
			adj.Offense[team] = coef + m.Intercept
			continue
		}
		if team, ok := strings.CutPrefix(col, defPrefix); ok {
			adj.Defense[team] = coef + m.Intercept
		}
	}
	if !sawHomefield {
		return Adjusted{}, fmt.Errorf("extract: model has no %q column", ns.Homefield)
	}
	return adj, nil
}

// OffenseFor returns a team's adjusted offensive value.
func (a Adjusted) OffenseFor(team string) (float64, error) {
	v, ok := a.Offense[team]
	if !ok {
		return 0, &UnknownTeamError{Namespace: OffenseNamespace, Team: team}
	}
	return v, nil
}

// DefenseFor returns a team's adjusted defensive value.
func (a Adjusted) DefenseFor(team string) (float64, error) {
	v, ok := a.Defense[team]
	if !ok {
		return 0, &UnknownTeamError{Namespace: DefenseNamespace, Team: team}
	}
	return v, nil
}
