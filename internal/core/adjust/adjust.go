// Package adjust fits opponent- and homefield-adjusted team effects with
// ridge regression over a one-hot team encoding.
package adjust

import (
	"math"
	"time"

	"github.com/charleschow/opp-adjust/internal/telemetry"
)

// Options tunes a fitting pass.
type Options struct {
	Penalties []float64
	Folds     int

	// ForcedPenalty skips the cross-validated search when set. It must be
	// positive.
	ForcedPenalty float64
}

func DefaultOptions() Options {
	return Options{
		Penalties: DefaultPenalties,
		Folds:     DefaultFolds,
	}
}

// Result is the output of one fitting pass.
type Result struct {
	Adjusted
	Selection Selection
	Rows      int
	RMSE      float64 // in-sample
	Elapsed   time.Duration
}

// Run encodes rows, selects a penalty, fits the ridge model and extracts the
// adjusted team values. Stages run strictly in order and share no state with
// other passes.
func Run(rows []Row, opts Options) (*Result, error) {
	start := time.Now()
	if len(opts.Penalties) == 0 {
		opts.Penalties = DefaultPenalties
	}
	if opts.Folds == 0 {
		opts.Folds = DefaultFolds
	}

	dm, err := Encode(rows)
	if err != nil {
		return nil, err
	}

	var sel Selection
	if opts.ForcedPenalty != 0 {
		sel = Selection{Penalty: opts.ForcedPenalty}
	} else {
		sel, err = SelectPenalty(dm, opts.Penalties, opts.Folds)
		if err != nil {
			return nil, err
		}
	}

	model, err := Fit(dm, sel.Penalty)
	if err != nil {
		return nil, err
	}

	adj, err := Extract(model, DefaultNamespaces())
	if err != nil {
		return nil, err
	}

	res := &Result{
		Adjusted:  adj,
		Selection: sel,
		Rows:      len(rows),
		RMSE:      math.Sqrt(model.SSE(dm) / float64(len(rows))),
		Elapsed:   time.Since(start),
	}
	telemetry.Debugf("adjust: rows=%d penalty=%g intercept=%.4f hfa=%.4f rmse=%.4f (%s)",
		res.Rows, res.Penalty, res.Intercept, res.Homefield, res.RMSE, res.Elapsed)
	return res, nil
}
