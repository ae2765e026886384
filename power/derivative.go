package power

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/fedpower/errs"
)

// Derivative returns ∂ψ/∂λ at x.
//
// Box-Cox:
//
//	(x^λ·log(x) - ψ) / λ        λ ≠ 0
//	log(x)² / 2                  λ = 0
//
// Yeo-Johnson:
//
//	((1+x)^λ·log(1+x) - ψ) / λ              x ≥ 0, λ ≠ 0
//	log(1+x)² / 2                           x ≥ 0, λ = 0
//	((1-x)^(2-λ)·log(1-x) + ψ) / (2-λ)      x < 0, λ ≠ 2
//	log(1-x)² / 2                           x < 0, λ = 2
func Derivative(f Family, lmb, x float64) float64 {
	if f == BoxCox {
		lx := math.Log(x)
		if nearZero(lmb) {
			return lx * lx / 2
		}
		return (math.Exp(lmb*lx)*lx - Transform(f, lmb, x)) / lmb
	}

	if x >= 0 {
		lx := math.Log1p(x)
		if nearZero(lmb) {
			return lx * lx / 2
		}
		return (math.Exp(lmb*lx)*lx - Transform(f, lmb, x)) / lmb
	}

	lx := math.Log1p(-x)
	if nearTwo(lmb) {
		return lx * lx / 2
	}
	return (math.Exp((2-lmb)*lx)*lx + Transform(f, lmb, x)) / (2 - lmb)
}

// DerivativeFormula selects how ∂NLL/∂λ is evaluated.
type DerivativeFormula int

const (
	// TrueDerivative evaluates ∂NLL/∂λ literally.
	TrueDerivative DerivativeFormula = iota
	// SecureDerivative evaluates n·Var(ψ)·∂NLL/∂λ, the division-free form
	// used by secure aggregation protocols. Its sign matches TrueDerivative.
	SecureDerivative
)

// String returns the formula name.
func (d DerivativeFormula) String() string {
	if d == SecureDerivative {
		return "secure"
	}
	return "true"
}

// NLLDerivative returns the derivative of the negative log-likelihood with
// respect to λ for the sample x. NaN values in x are dropped.
//
// The transform is computed in linear arithmetic, so the result may be NaN
// or ±Inf for extreme λ.
func NLLDerivative(f Family, lmb float64, x []float64, formula DerivativeFormula) (float64, error) {
	x, err := Prepare(f, x)
	if err != nil {
		return math.NaN(), err
	}
	if len(x) == 0 {
		return math.NaN(), errs.ErrEmptySample
	}
	return nllDerivative(f, lmb, x, Constant(f, x), formula), nil
}

// nllDerivative assumes x is prepared and c = Constant(f, x).
func nllDerivative(f Family, lmb float64, x []float64, c float64, formula DerivativeFormula) float64 {
	n := float64(len(x))
	y := TransformSlice(f, lmb, x)
	dy := make([]float64, len(x))
	for i, v := range x {
		dy[i] = Derivative(f, lmb, v)
	}

	_, variance := stat.PopMeanVariance(y, nil)
	cross := floats.Dot(y, dy)
	sy := floats.Sum(y)
	sdy := floats.Sum(dy)

	if formula == SecureDerivative {
		return n*cross - sy*sdy - c*n*variance
	}
	return (cross-sy*sdy/n)/variance - c
}
