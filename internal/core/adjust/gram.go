package adjust

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// gram holds the sufficient statistics of a row subset: XᵀX, Xᵀy and the
// column/target sums. Subsets combine by addition, which lets the selector
// derive every training fold from one pass over the data.
type gram struct {
	n    float64
	sumX []float64
	sumY float64
	xtx  *mat.SymDense
	xty  []float64
}

func newGram(p int) *gram {
	return &gram{
		sumX: make([]float64, p),
		xtx:  mat.NewSymDense(p, nil),
		xty:  make([]float64, p),
	}
}

func (g *gram) addRow(o, d, h int, hv, y float64) {
	g.n++
	g.sumY += y

	g.sumX[o]++
	g.sumX[d]++
	g.sumX[h] += hv

	g.xty[o] += y
	g.xty[d] += y
	g.xty[h] += hv * y

	g.inc(o, o, 1)
	g.inc(d, d, 1)
	g.inc(o, d, 1)
	if hv != 0 {
		g.inc(o, h, hv)
		g.inc(d, h, hv)
		g.inc(h, h, hv*hv)
	}
}

func (g *gram) inc(i, j int, v float64) {
	g.xtx.SetSym(i, j, g.xtx.At(i, j)+v)
}

func (g *gram) plus(o *gram) *gram { return g.combine(o, 1) }
func (g *gram) minus(o *gram) *gram { return g.combine(o, -1) }

// combine returns g + sign*o as a new gram.
func (g *gram) combine(o *gram, sign float64) *gram {
	p := len(g.sumX)
	out := newGram(p)
	out.n = g.n + sign*o.n
	out.sumY = g.sumY + sign*o.sumY
	for i := 0; i < p; i++ {
		out.sumX[i] = g.sumX[i] + sign*o.sumX[i]
		out.xty[i] = g.xty[i] + sign*o.xty[i]
	}
	scaled := mat.NewSymDense(p, nil)
	scaled.ScaleSym(sign, o.xtx)
	out.xtx.AddSym(g.xtx, scaled)
	return out
}

// solve fits ridge coefficients with an unpenalised intercept by centring:
// (XcᵀXc + λI)β = Xcᵀyc, intercept = ȳ - x̄·β.
func (g *gram) solve(penalty float64) (float64, []float64, error) {
	if g.n == 0 {
		return 0, nil, &InsufficientDataError{Rows: 0, Reason: "empty training set"}
	}
	p := len(g.sumX)
	mean := make([]float64, p)
	for i := range mean {
		mean[i] = g.sumX[i] / g.n
	}
	ybar := g.sumY / g.n

	a := mat.NewSymDense(p, nil)
	a.SymRankOne(g.xtx, -g.n, mat.NewVecDense(p, mean))
	for i := 0; i < p; i++ {
		a.SetSym(i, i, a.At(i, i)+penalty)
	}

	b := mat.NewVecDense(p, nil)
	for i := 0; i < p; i++ {
		b.SetVec(i, g.xty[i]-g.n*mean[i]*ybar)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return 0, nil, fmt.Errorf("ridge system not positive definite at penalty %g", penalty)
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, nil, fmt.Errorf("ridge solve: %w", err)
		}
	}

	coef := make([]float64, p)
	intercept := ybar
	for i := 0; i < p; i++ {
		coef[i] = beta.AtVec(i)
		intercept -= mean[i] * coef[i]
	}
	return intercept, coef, nil
}

// gramOf accumulates the rows of dm selected by keep (all rows when nil).
func (dm *DesignMatrix) gramOf(keep func(i int) bool) *gram {
	g := newGram(len(dm.columns))
	h := dm.hfaCol()
	for i := range dm.y {
		if keep != nil && !keep(i) {
			continue
		}
		g.addRow(dm.offIdx[i], dm.defIdx[i], h, dm.hfa[i], dm.y[i])
	}
	return g
}
