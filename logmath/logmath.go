package logmath

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// LogMinusOne is log(-1) on the principal branch. Adding it to a log-domain
// value flips the sign of the value it encodes.
const LogMinusOne = complex(0, math.Pi)

// NegInf is log(0).
var NegInf = complex(math.Inf(-1), 0)

// LogSumExp returns log(Σ exp(z)) for complex z.
//
// The largest real part is factored out before exponentiating so that no
// term overflows. A negative sum comes back with an imaginary part of ±π,
// which is how signs travel through the log domain. An empty input or one
// where every real part is -Inf gives -Inf.
func LogSumExp(zs ...complex128) complex128 {
	if len(zs) == 0 {
		return NegInf
	}

	m := math.Inf(-1)
	for _, z := range zs {
		if r := real(z); r > m {
			m = r
		}
	}
	if math.IsInf(m, 0) {
		m = 0
	}

	var s complex128
	for _, z := range zs {
		s += cmplx.Exp(complex(real(z)-m, imag(z)))
	}

	return cmplx.Log(s) + complex(m, 0)
}

// LogSub returns the log-domain encoding of exp(a) - exp(b).
func LogSub(a, b complex128) complex128 {
	return LogSumExp(a, b+LogMinusOne)
}

// Scale multiplies z by the real factor k.
//
// Plain complex multiplication turns (-Inf + 0i)·(k + 0i) into -Inf + NaN·i,
// which would poison a later log-sum-exp. Scaling each part keeps log(0)
// intact.
func Scale(z complex128, k float64) complex128 {
	return complex(k*real(z), k*imag(z))
}

// LogSumExpReal returns log(Σ exp(x)) for real x.
func LogSumExpReal(xs []float64) float64 {
	if len(xs) == 0 {
		return math.Inf(-1)
	}
	return floats.LogSumExp(xs)
}

// Real lifts a real log-domain slice to complex.
func Real(xs []float64) []complex128 {
	zs := make([]complex128, len(xs))
	for i, x := range xs {
		zs[i] = complex(x, 0)
	}
	return zs
}
