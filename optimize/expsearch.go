package optimize

import (
	"fmt"
	"math"
)

// StopReason tells why ExpSearch stopped.
type StopReason int

const (
	// StopMaxIter means the iteration budget ran out.
	StopMaxIter StopReason = iota
	// StopRoot means the derivative was exactly zero at the probe.
	StopRoot
	// StopNaN means the derivative was NaN at the probe.
	StopNaN
	// StopConverged means the bracket met the tolerance.
	StopConverged
)

// String returns the reason name.
func (r StopReason) String() string {
	switch r {
	case StopMaxIter:
		return "maxiter"
	case StopRoot:
		return "root"
	case StopNaN:
		return "nan"
	case StopConverged:
		return "converged"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// ExpState is one probe of ExpSearch.
type ExpState struct {
	Iter   int
	Lambda float64
	Pos    float64 // Smallest probe seen with a positive derivative
	Neg    float64 // Largest probe seen with a negative derivative
	Sign   float64 // Sign of the derivative at Lambda
}

// ExpResult is the outcome of ExpSearch.
type ExpResult struct {
	Lambda     float64
	Iterations int
	Pos        float64
	Neg        float64
	Reason     StopReason
	Trace      []ExpState
}

// ExpSearch finds the root of a derivative whose sign goes from negative to
// positive, without an initial bracket.
//
// Starting from 0, the probe doubles away from zero (by at least 1) until
// the derivative changes sign, then bisects between the last negative and
// positive probes. It stops when the derivative is exactly zero or NaN, when
// the bracket half width is below s.XTol + s.RTol·|λ|, or after s.MaxIter
// probes. Running out of iterations is not an error: the last probe is
// returned.
func ExpSearch(deriv func(float64) float64, s Settings) *ExpResult {
	lmb, pos, neg := 0.0, math.Inf(1), math.Inf(-1)
	res := &ExpResult{Reason: StopMaxIter}

	for i := 0; i < s.MaxIter; i++ {
		res.Iterations = i + 1
		d := deriv(lmb)
		sign := sgn(d)
		res.Trace = append(res.Trace, ExpState{Iter: i, Lambda: lmb, Pos: pos, Neg: neg, Sign: sign})

		if math.IsNaN(d) {
			res.Reason = StopNaN
			break
		}
		if sign == 0 {
			res.Reason = StopRoot
			break
		}
		if s.converged(pos-neg, lmb) {
			res.Reason = StopConverged
			break
		}

		lmb, pos, neg = expUpdate(lmb, pos, neg, sign)
	}

	res.Lambda, res.Pos, res.Neg = lmb, pos, neg
	return res
}

// expUpdate moves the probe given the sign of the derivative at lmb.
func expUpdate(lmb, pos, neg, sign float64) (float64, float64, float64) {
	if sign < 0 {
		neg = lmb
		if !math.IsInf(pos, 1) {
			return (pos + lmb) / 2, pos, neg
		}
		return math.Max(2*lmb, 1), pos, neg
	}

	pos = lmb
	if !math.IsInf(neg, -1) {
		return (neg + lmb) / 2, pos, neg
	}
	return math.Min(2*lmb, -1), pos, neg
}

func sgn(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	default:
		return math.NaN()
	}
}
