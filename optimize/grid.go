package optimize

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/fedpower/errs"
)

// DefaultGridPoints is the number of interior points evaluated per round
// when none is given.
const DefaultGridPoints = 20

// GridSearch minimizes f by repeatedly evaluating an evenly spaced grid of
// points interior to the current bracket in a single call, then shrinking
// the bracket around the best grid point.
//
// Every call of f is one round. The bracket ends are carried over from the
// previous round and never re-evaluated, and the incumbent is inserted into
// the grid so it can never be lost. The search stops once the bracket half
// width falls below s.XTol + s.RTol·|x|.
//
// The bracket may be nil, two points to seed a downhill bracket search, or
// three points xa < xb < xc with f(xb) below both ends.
//
// A NaN objective value stops the search; the best point seen so far is
// returned together with an error wrapping errs.ErrNumericAnomaly.
func GridSearch(f Objective, brack []float64, points int, s Settings) (*Result, error) {
	if points < 1 {
		return nil, fmt.Errorf("grid search: points must be positive, got %d", points)
	}

	br, err := initialBracket(f, brack)
	if err != nil {
		return nil, err
	}

	xl, xm, xr := br.XA, br.XB, br.XC
	fl, fm, fr := br.FA, br.FB, br.FC
	rounds := br.Rounds

	grid := make([]float64, points+2)
	iter := 0
	converged := false
	for ; iter < s.MaxIter; iter++ {
		floats.Span(grid, xl, xr)

		inner, err := f(slices.Clone(grid[1 : len(grid)-1]))
		rounds++
		if err != nil {
			return nil, err
		}
		if len(inner) != points {
			return nil, fmt.Errorf("objective returned %d values for %d points", len(inner), points)
		}

		xs := slices.Clone(grid)
		fs := make([]float64, 0, len(grid)+1)
		fs = append(fs, fl)
		fs = append(fs, inner...)
		fs = append(fs, fr)

		if !slices.Contains(xs, xm) {
			j := sort.SearchFloat64s(xs, xm)
			xs = slices.Insert(xs, j, xm)
			fs = slices.Insert(fs, j, fm)
		}

		if k := slices.IndexFunc(fs, math.IsNaN); k >= 0 {
			return &Result{X: xm, F: fm, Rounds: rounds, Iterations: iter + 1},
				fmt.Errorf("%w: objective is NaN at %g", errs.ErrNumericAnomaly, xs[k])
		}

		idx := floats.MinIdx(fs)
		xm, fm = xs[idx], fs[idx]

		switch {
		case idx == 0:
			xl, fl = xs[0], fs[0]
			xr, fr = xs[1], fs[1]
		case idx == len(xs)-1:
			xl, fl = xs[idx-1], fs[idx-1]
			xr, fr = xs[idx], fs[idx]
		default:
			xl, fl = xs[idx-1], fs[idx-1]
			xr, fr = xs[idx+1], fs[idx+1]
		}

		if s.converged(xr-xl, xm) {
			iter++
			converged = true
			break
		}
	}

	return &Result{X: xm, F: fm, Rounds: rounds, Iterations: iter, Converged: converged}, nil
}
