package adjust

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Column namespaces produced by Encode.
const (
	OffenseNamespace = "offense"
	DefenseNamespace = "defense"
	HomefieldColumn  = "hfa"
)

// Row is one play ready for modelling: the offense, the signed homefield
// indicator from the offense's point of view, the defense, and the stat value.
type Row struct {
	Offense   string
	Homefield float64 // +1 offense at home, -1 offense away, 0 neutral site
	Defense   string
	Value     float64
}

// ColumnName joins a namespace and a team the same way Encode names columns.
func ColumnName(namespace, team string) string {
	return namespace + "_" + team
}

// DesignMatrix is the one-hot encoding of a set of rows. Every row has exactly
// one active offense indicator and one active defense indicator, so each block
// is collinear with the intercept. No reference level is dropped; the ridge
// penalty resolves the rank deficiency.
//
// Rows are stored sparsely as column indices; Dense materialises the full table.
type DesignMatrix struct {
	columns []string
	offense []string
	defense []string

	offIdx []int
	defIdx []int
	hfa    []float64
	y      []float64
}

// Encode builds the design matrix and target vector from rows. Offense and
// defense levels are sorted by name; the homefield column comes last.
func Encode(rows []Row) (*DesignMatrix, error) {
	if len(rows) == 0 {
		return nil, &InsufficientDataError{Rows: 0, Reason: "no rows to encode"}
	}

	offSet := make(map[string]struct{})
	defSet := make(map[string]struct{})
	for i, r := range rows {
		if r.Offense == "" || r.Defense == "" {
			return nil, fmt.Errorf("encode row %d: empty team name", i)
		}
		if r.Offense == r.Defense {
			return nil, fmt.Errorf("encode row %d: %q on both offense and defense", i, r.Offense)
		}
		if r.Homefield != 1 && r.Homefield != -1 && r.Homefield != 0 {
			return nil, fmt.Errorf("encode row %d: homefield %v not in {-1, 0, 1}", i, r.Homefield)
		}
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("encode row %d: non-finite value", i)
		}
		offSet[r.Offense] = struct{}{}
		defSet[r.Defense] = struct{}{}
	}

	dm := &DesignMatrix{
		offense: sortedKeys(offSet),
		defense: sortedKeys(defSet),
		offIdx:  make([]int, len(rows)),
		defIdx:  make([]int, len(rows)),
		hfa:     make([]float64, len(rows)),
		y:       make([]float64, len(rows)),
	}

	offPos := make(map[string]int, len(dm.offense))
	for i, t := range dm.offense {
		offPos[t] = i
		dm.columns = append(dm.columns, ColumnName(OffenseNamespace, t))
	}
	defPos := make(map[string]int, len(dm.defense))
	for i, t := range dm.defense {
		defPos[t] = len(dm.offense) + i
		dm.columns = append(dm.columns, ColumnName(DefenseNamespace, t))
	}
	dm.columns = append(dm.columns, HomefieldColumn)

	for i, r := range rows {
		dm.offIdx[i] = offPos[r.Offense]
		dm.defIdx[i] = defPos[r.Defense]
		dm.hfa[i] = r.Homefield
		dm.y[i] = r.Value
	}
	return dm, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Dims returns the number of rows and columns.
func (dm *DesignMatrix) Dims() (int, int) { return len(dm.y), len(dm.columns) }

// Columns returns the column names in matrix order.
func (dm *DesignMatrix) Columns() []string {
	out := make([]string, len(dm.columns))
	copy(out, dm.columns)
	return out
}

func (dm *DesignMatrix) OffenseTeams() []string { return append([]string(nil), dm.offense...) }
func (dm *DesignMatrix) DefenseTeams() []string { return append([]string(nil), dm.defense...) }

// Target returns a copy of the stat values aligned with the rows.
func (dm *DesignMatrix) Target() []float64 { return append([]float64(nil), dm.y...) }

// At returns the matrix entry at row i, column j.
func (dm *DesignMatrix) At(i, j int) float64 {
	switch j {
	case dm.offIdx[i], dm.defIdx[i]:
		return 1
	case dm.hfaCol():
		return dm.hfa[i]
	}
	return 0
}

// Dense materialises the full matrix. Intended for inspection and tests; the
// solver works from the sparse form.
func (dm *DesignMatrix) Dense() *mat.Dense {
	r, c := dm.Dims()
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		d.Set(i, dm.offIdx[i], 1)
		d.Set(i, dm.defIdx[i], 1)
		d.Set(i, dm.hfaCol(), dm.hfa[i])
	}
	return d
}

func (dm *DesignMatrix) hfaCol() int { return len(dm.columns) - 1 }

// predict evaluates intercept + x_i·coef without materialising the row.
func (dm *DesignMatrix) predict(i int, intercept float64, coef []float64) float64 {
	return intercept + coef[dm.offIdx[i]] + coef[dm.defIdx[i]] + coef[dm.hfaCol()]*dm.hfa[i]
}
