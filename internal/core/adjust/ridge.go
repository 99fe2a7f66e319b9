package adjust

import (
	"math"
	"sort"
)

// FittedModel is a ridge fit over a design matrix. It is immutable once built.
type FittedModel struct {
	Penalty   float64
	Intercept float64

	columns []string
	coef    []float64
	index   map[string]int
}

// Fit solves the L2-regularised least squares problem for dm at the given
// penalty. The intercept is not penalised.
func Fit(dm *DesignMatrix, penalty float64) (*FittedModel, error) {
	if penalty <= 0 || math.IsNaN(penalty) || math.IsInf(penalty, 0) {
		return nil, &DegenerateRegularizationError{Penalty: penalty}
	}
	if dm == nil || len(dm.y) == 0 {
		return nil, &InsufficientDataError{Rows: 0, Reason: "empty design matrix"}
	}

	intercept, coef, err := dm.gramOf(nil).solve(penalty)
	if err != nil {
		return nil, err
	}

	m := &FittedModel{
		Penalty:   penalty,
		Intercept: intercept,
		columns:   dm.Columns(),
		coef:      coef,
		index:     make(map[string]int, len(coef)),
	}
	for i, c := range m.columns {
		m.index[c] = i
	}
	return m, nil
}

// Coefficient returns the raw fitted coefficient for a column name.
func (m *FittedModel) Coefficient(column string) (float64, bool) {
	i, ok := m.index[column]
	if !ok {
		return 0, false
	}
	return m.coef[i], true
}

// Columns returns the model's column names in design-matrix order.
func (m *FittedModel) Columns() []string { return append([]string(nil), m.columns...) }

// Coefficients returns a copy of the column → coefficient mapping.
func (m *FittedModel) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(m.coef))
	for i, c := range m.columns {
		out[c] = m.coef[i]
	}
	return out
}

// SSE returns the residual sum of squares of the model on dm. dm must share the
// model's columns.
func (m *FittedModel) SSE(dm *DesignMatrix) float64 {
	var sse float64
	for i, y := range dm.y {
		r := y - dm.predict(i, m.Intercept, m.coef)
		sse += r * r
	}
	return sse
}

func sortedUnique(vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Float64s(out)
	j := 0
	for i, v := range out {
		if i == 0 || v != out[j-1] {
			out[j] = v
			j++
		}
	}
	return out[:j]
}
