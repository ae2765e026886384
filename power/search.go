package power

import (
	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/optimize"
)

// ExpSearch locates the λ where ∂NLL/∂λ changes sign, without an initial
// bracket, on a single party's data.
//
// The derivative is computed in linear arithmetic, so on data that
// overflows the search stops early with optimize.StopNaN at the first probe
// whose derivative is NaN.
func ExpSearch(f Family, x []float64, formula DerivativeFormula, s optimize.Settings) (*optimize.ExpResult, error) {
	x, err := Prepare(f, x)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, errs.ErrEmptySample
	}

	c := Constant(f, x)
	deriv := func(lmb float64) float64 {
		return nllDerivative(f, lmb, x, c, formula)
	}
	return optimize.ExpSearch(deriv, s), nil
}
