package federated

import (
	"math"
	"math/cmplx"

	"github.com/sartorproj/fedpower/power"
)

// Aggregate is the server-side view of one round.
type Aggregate struct {
	Lambdas []float64
	C       float64
	N       int
	NPos    int
	NNeg    int
	LogVar  []float64
}

// LogLikelihood returns (λ-1)·C - N/2·LogVar for every lambda.
func (a *Aggregate) LogLikelihood() []float64 {
	out := make([]float64, len(a.Lambdas))
	n := float64(a.N)
	for i, lmb := range a.Lambdas {
		out[i] = (lmb-1)*a.C - n/2*a.LogVar[i]
	}
	return out
}

// signGroups splits client statistics by the sign of their partition:
// all ≥ 0, all < 0, or mixed. Box-Cox partitions are always positive.
// Registration order is kept inside every group.
type signGroups struct {
	pos, neg, mix    []*Statistics
	nPos, nNeg, nMix int
}

func groupBySign(stats []*Statistics) signGroups {
	var g signGroups
	for _, st := range stats {
		switch {
		case st.NNeg == 0:
			g.pos = append(g.pos, st)
			g.nPos += st.N
		case st.NPos == 0:
			g.neg = append(g.neg, st)
			g.nNeg += st.N
		default:
			g.mix = append(g.mix, st)
			g.nMix += st.N
		}
	}
	return g
}

// nearZero and nearTwo mirror the singular-point tests of the power package.
func nearZero(lmb float64) bool { return math.Abs(lmb) < power.Eps }

func nearTwo(lmb float64) bool { return math.Abs(lmb-2) < power.Eps }

// logAbsScale is 2·log|λ| for the positive branch and 2·log|2-λ| for the
// negative branch.
func logAbsScale(lmb float64, negative bool) float64 {
	if negative {
		return 2 * math.Log(math.Abs(2-lmb))
	}
	return 2 * math.Log(math.Abs(lmb))
}

// logDivisor is log(λ) for the positive branch and log(λ-2) for the negative
// branch, as complex logs so a negative divisor flips the sign.
func logDivisor(lmb float64, negative bool) complex128 {
	if negative {
		return cmplx.Log(complex(lmb-2, 0))
	}
	return cmplx.Log(complex(lmb, 0))
}

// singular reports whether the branch is at its logarithmic limit.
func singular(lmb float64, negative bool) bool {
	if negative {
		return nearTwo(lmb)
	}
	return nearZero(lmb)
}

func logCount(n int) complex128 {
	return complex(math.Log(float64(n)), 0)
}

func firsts(stats []*Statistics, i int) []complex128 {
	out := make([]complex128, len(stats))
	for k, st := range stats {
		out[k] = st.First[i]
	}
	return out
}

func seconds(stats []*Statistics, i int) []complex128 {
	out := make([]complex128, len(stats))
	for k, st := range stats {
		out[k] = complex(st.Second[i], 0)
	}
	return out
}
