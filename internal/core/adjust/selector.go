package adjust

import (
	"fmt"
	"math"

	"github.com/charleschow/opp-adjust/internal/telemetry"
)

// DefaultPenalties is the candidate penalty set searched by cross-validation.
// Full-season play-by-play data usually lands in the 150-200 range; smaller
// samples drift higher.
var DefaultPenalties = []float64{75, 100, 125, 150, 175, 200, 225, 250, 275, 300, 325}

// DefaultFolds is the cross-validation fold count. Rows are assigned to folds
// round-robin (row i goes to fold i mod k), so selection is deterministic.
const DefaultFolds = 5

// Score is the mean held-out squared error of one candidate penalty.
type Score struct {
	Penalty float64
	MSE     float64
}

// Selection is the outcome of a penalty search.
type Selection struct {
	Penalty float64
	Folds   int
	Scores  []Score // ascending by penalty
}

// SelectPenalty runs k-fold cross-validation over candidates and returns the
// penalty with the lowest mean held-out squared error. Equal errors resolve to
// the smaller penalty.
func SelectPenalty(dm *DesignMatrix, candidates []float64, folds int) (Selection, error) {
	if folds < 2 {
		return Selection{}, fmt.Errorf("cross-validation needs at least 2 folds, got %d", folds)
	}
	if len(candidates) == 0 {
		return Selection{}, fmt.Errorf("no candidate penalties")
	}
	for _, c := range candidates {
		if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return Selection{}, &DegenerateRegularizationError{Penalty: c}
		}
	}
	if dm == nil {
		return Selection{}, &InsufficientDataError{Reason: "no design matrix"}
	}

	n := len(dm.y)
	if n < folds {
		return Selection{}, &InsufficientDataError{
			Rows:   n,
			Reason: fmt.Sprintf("fewer rows than the %d cross-validation folds", folds),
		}
	}
	if zeroVariance(dm.y) {
		return Selection{}, &InsufficientDataError{Rows: n, Reason: "target has zero variance"}
	}

	foldGrams := make([]*gram, folds)
	for k := range foldGrams {
		foldGrams[k] = dm.gramOf(func(i int) bool { return i%folds == k })
	}
	total := newGram(len(dm.columns))
	for _, fg := range foldGrams {
		total = total.plus(fg)
	}
	train := make([]*gram, folds)
	for k, fg := range foldGrams {
		train[k] = total.minus(fg)
	}

	sel := Selection{Folds: folds, Penalty: math.NaN()}
	best := math.Inf(1)
	for _, penalty := range sortedUnique(candidates) {
		var sum float64
		for k := 0; k < folds; k++ {
			intercept, coef, err := train[k].solve(penalty)
			if err != nil {
				return Selection{}, fmt.Errorf("fold %d penalty %g: %w", k, penalty, err)
			}
			var sse float64
			var cnt int
			for i := k; i < n; i += folds {
				r := dm.y[i] - dm.predict(i, intercept, coef)
				sse += r * r
				cnt++
			}
			sum += sse / float64(cnt)
		}
		mse := sum / float64(folds)
		sel.Scores = append(sel.Scores, Score{Penalty: penalty, MSE: mse})
		telemetry.Debugf("adjust: cv penalty=%g mse=%.6f", penalty, mse)

		if mse < best {
			best = mse
			sel.Penalty = penalty
		}
	}
	return sel, nil
}

func zeroVariance(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
