package power

import (
	"math"
	"math/cmplx"

	"github.com/sartorproj/fedpower/logmath"
)

// Transform applies the power transform to a single value.
//
// Box-Cox:
//
//	ψ(x) = (x^λ - 1) / λ     λ ≠ 0
//	ψ(x) = log(x)            λ = 0
//
// Yeo-Johnson:
//
//	ψ(x) = ((1+x)^λ - 1) / λ            x ≥ 0, λ ≠ 0
//	ψ(x) = log(1+x)                     x ≥ 0, λ = 0
//	ψ(x) = -((1-x)^(2-λ) - 1) / (2-λ)   x < 0, λ ≠ 2
//	ψ(x) = -log(1-x)                    x < 0, λ = 2
//
// The result overflows to ±Inf for extreme λ or x. Use LogTransform when
// that matters.
func Transform(f Family, lmb, x float64) float64 {
	if f == BoxCox {
		if nearZero(lmb) {
			return math.Log(x)
		}
		return math.Expm1(lmb*math.Log(x)) / lmb
	}

	if x >= 0 {
		if nearZero(lmb) {
			return math.Log1p(x)
		}
		return math.Expm1(lmb*math.Log1p(x)) / lmb
	}
	if nearTwo(lmb) {
		return -math.Log1p(-x)
	}
	return -math.Expm1((2-lmb)*math.Log1p(-x)) / (2 - lmb)
}

// TransformSlice applies Transform to every value of x. NaN values map to NaN.
func TransformSlice(f Family, lmb float64, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = Transform(f, lmb, v)
	}
	return out
}

// LogPower returns the log of the power term of the transform before the
// -1 shift and the 1/λ scale are applied: log(x^λ) for Box-Cox,
// log((1+x)^λ) for non-negative and log((1-x)^(2-λ)) for negative
// Yeo-Johnson inputs.
//
// At a singular point (λ=0, or λ=2 for negative Yeo-Johnson inputs) the
// power term degenerates, so the log of the limiting transform value is
// returned instead. That value may be negative, in which case the result
// carries an imaginary part of π.
func LogPower(f Family, lmb, x float64) complex128 {
	if f == BoxCox {
		if nearZero(lmb) {
			return cmplx.Log(complex(math.Log(x), 0))
		}
		return complex(lmb*math.Log(x), 0)
	}

	if x >= 0 {
		if nearZero(lmb) {
			return cmplx.Log(complex(math.Log1p(x), 0))
		}
		return complex(lmb*math.Log1p(x), 0)
	}
	if nearTwo(lmb) {
		return cmplx.Log(complex(-math.Log1p(-x), 0))
	}
	return complex((2-lmb)*math.Log1p(-x), 0)
}

// LogTransform returns log(ψ(x)) as a complex number. Negative transform
// values carry an imaginary part of ±π. exp(LogTransform) equals Transform
// wherever Transform does not overflow.
func LogTransform(f Family, lmb, x float64) complex128 {
	p := LogPower(f, lmb, x)

	if f == BoxCox || x >= 0 {
		if nearZero(lmb) {
			return p
		}
		return logmath.LogSumExp(p, logmath.LogMinusOne) - cmplx.Log(complex(lmb, 0))
	}

	if nearTwo(lmb) {
		return p
	}
	return logmath.LogSumExp(p, logmath.LogMinusOne) - cmplx.Log(complex(lmb-2, 0))
}

// LogTransformSlice applies LogTransform to every value of x.
func LogTransformSlice(f Family, lmb float64, x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = LogTransform(f, lmb, v)
	}
	return out
}

// Constant returns the λ-independent sum in the log-likelihood:
// Σ log(x) for Box-Cox and Σ sign(x)·log(1+|x|) for Yeo-Johnson.
func Constant(f Family, x []float64) float64 {
	c := 0.0
	for _, v := range x {
		if f == BoxCox {
			c += math.Log(v)
			continue
		}
		switch {
		case v > 0:
			c += math.Log1p(v)
		case v < 0:
			c -= math.Log1p(-v)
		}
	}
	return c
}
