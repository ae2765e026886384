package power

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/logmath"
	"github.com/sartorproj/fedpower/optimize"
)

// LogLikelihood returns the profile log-likelihood of λ for the sample x:
//
//	ℓ(λ) = (λ-1)·c - n/2·log(Var(ψ_λ(x)))
//
// where c is Constant(f, x). NaN values in x are dropped. Box-Cox with a
// non-positive value fails with errs.ErrDomain.
func LogLikelihood(f Family, lmb float64, x []float64, mode Mode) (float64, error) {
	lls, err := LogLikelihoods(f, []float64{lmb}, x, mode)
	if err != nil {
		return math.NaN(), err
	}
	return lls[0], nil
}

// LogLikelihoods is the batched form of LogLikelihood.
func LogLikelihoods(f Family, lmbs []float64, x []float64, mode Mode) ([]float64, error) {
	if len(lmbs) == 0 {
		return nil, errs.ErrShape
	}
	x, err := Prepare(f, x)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, errs.ErrEmptySample
	}

	s := newSample(f, x)
	out := make([]float64, len(lmbs))
	for i, lmb := range lmbs {
		out[i] = s.logLikelihood(lmb, mode)
	}
	return out, nil
}

// sample caches the λ-independent parts of a prepared data set.
type sample struct {
	family Family
	x      []float64
	c      float64
	nPos   int
	nNeg   int
}

func newSample(f Family, x []float64) *sample {
	s := &sample{family: f, x: x, c: Constant(f, x)}
	for _, v := range x {
		if v >= 0 {
			s.nPos++
		} else {
			s.nNeg++
		}
	}
	return s
}

func (s *sample) logLikelihood(lmb float64, mode Mode) float64 {
	var logVar float64
	if mode == Linear {
		logVar = s.linearLogVar(lmb)
	} else {
		logVar = s.logDomainLogVar(lmb)
	}
	n := float64(len(s.x))
	return (lmb-1)*s.c - n/2*logVar
}

// logDomainLogVar never forms x^λ directly.
func (s *sample) logDomainLogVar(lmb float64) float64 {
	f := s.family

	switch {
	case f == BoxCox:
		if nearZero(lmb) {
			return math.Log(stat.PopVariance(mapSlice(s.x, math.Log), nil))
		}
		return logmath.LogVar(s.logPowers(lmb)) - 2*math.Log(math.Abs(lmb))

	case s.nNeg == 0:
		if nearZero(lmb) {
			return math.Log(stat.PopVariance(mapSlice(s.x, math.Log1p), nil))
		}
		return logmath.LogVar(s.logPowers(lmb)) - 2*math.Log(math.Abs(lmb))

	case s.nPos == 0:
		if nearTwo(lmb) {
			return math.Log(stat.PopVariance(mapSlice(s.x, func(v float64) float64 { return math.Log1p(-v) }), nil))
		}
		return logmath.LogVar(s.logPowers(lmb)) - 2*math.Log(math.Abs(2-lmb))

	default:
		return logmath.LogVar(LogTransformSlice(f, lmb, s.x))
	}
}

// linearLogVar follows the direct formula and overflows for extreme λ.
func (s *sample) linearLogVar(lmb float64) float64 {
	var y []float64
	if s.family == BoxCox && !nearZero(lmb) {
		y = mapSlice(s.x, func(v float64) float64 { return math.Pow(v, lmb) / lmb })
	} else {
		y = TransformSlice(s.family, lmb, s.x)
	}
	return math.Log(stat.PopVariance(y, nil))
}

func (s *sample) logPowers(lmb float64) []complex128 {
	out := make([]complex128, len(s.x))
	for i, v := range s.x {
		out[i] = LogPower(s.family, lmb, v)
	}
	return out
}

func mapSlice(x []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = fn(v)
	}
	return out
}

// DefaultBracket is the initial bracket used by MLE when none is given.
var DefaultBracket = []float64{-2, 2}

// MLE finds the λ maximising LogLikelihood with Brent's method on a single
// party's data. A nil bracket means DefaultBracket.
func MLE(f Family, x []float64, mode Mode, brack []float64) (*optimize.Result, error) {
	x, err := Prepare(f, x)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, errs.ErrEmptySample
	}
	if brack == nil {
		brack = DefaultBracket
	}

	s := newSample(f, x)
	objective := func(lmbs []float64) ([]float64, error) {
		out := make([]float64, len(lmbs))
		for i, lmb := range lmbs {
			out[i] = -s.logLikelihood(lmb, mode)
		}
		return out, nil
	}

	res, err := optimize.Brent(objective, brack, optimize.DefaultBrentSettings())
	if err != nil {
		return res, fmt.Errorf("%s mle: %w", f, err)
	}
	return res, nil
}
