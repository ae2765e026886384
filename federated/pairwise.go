package federated

import (
	"math"

	"github.com/sartorproj/fedpower/logmath"
	"github.com/sartorproj/fedpower/power"
)

// triplet is a partial variance: count, log mean and log M2.
type triplet struct {
	n       int
	logmean complex128
	logM2   complex128
}

// merge combines two partial variances (Chan et al.) in the log domain.
func merge(a, b triplet) triplet {
	n := a.n + b.n
	fn, fa, fb := float64(n), float64(a.n), float64(b.n)

	logdelta := logmath.LogSub(b.logmean, a.logmean)
	return triplet{
		n:       n,
		logmean: logmath.LogSumExp(a.logmean, logdelta+complex(math.Log(fb/fn), 0)),
		logM2: logmath.LogSumExp(a.logM2, b.logM2,
			logmath.Scale(logdelta, 2)+complex(math.Log(fa*fb/fn), 0)),
	}
}

// reduce merges the queue front to back: the first two entries are popped,
// merged, and the result is appended at the back until one is left.
// The order is part of the protocol and must not be rebalanced.
func reduce(queue []triplet) triplet {
	q := append([]triplet(nil), queue...)
	for len(q) >= 2 {
		merged := merge(q[0], q[1])
		q = append(q[2:], merged)
	}
	return q[0]
}

func triplets(stats []*Statistics, i int) []triplet {
	out := make([]triplet, len(stats))
	for k, st := range stats {
		out[k] = triplet{n: st.N, logmean: st.First[i], logM2: complex(st.Second[i], 0)}
	}
	return out
}

// pairwiseLogVar combines pairwise statistics into log Var(ψ) for lambda
// index i.
func pairwiseLogVar(f power.Family, stats []*Statistics, i int) float64 {
	lmb := stats[0].Lambdas[i]
	g := groupBySign(stats)

	if f == power.BoxCox {
		t := reduce(triplets(g.pos, i))
		logM2 := real(t.logM2)
		if !nearZero(lmb) {
			logM2 -= logAbsScale(lmb, false)
		}
		return logM2 - math.Log(float64(t.n))
	}

	groups := 0
	for _, n := range []int{g.nPos, g.nNeg, g.nMix} {
		if n > 0 {
			groups++
		}
	}

	var queue []triplet
	if g.nPos > 0 {
		queue = append(queue, rescale(lmb, reduce(triplets(g.pos, i)), groups > 1, false))
	}
	if g.nNeg > 0 {
		queue = append(queue, rescale(lmb, reduce(triplets(g.neg, i)), groups > 1, true))
	}
	if g.nMix > 0 {
		t := reduce(triplets(g.mix, i))
		t.logM2 = complex(real(t.logM2), 0)
		queue = append(queue, t)
	}

	t := reduce(queue)
	return real(t.logM2) - math.Log(float64(t.n))
}

// rescale maps a single-sign group reduced over y = (1±x)^p onto ψ = (y-1)/d.
// M2 only needs the 1/d² scale; the mean is shifted only when it will be
// merged with another group.
func rescale(lmb float64, t triplet, shiftMean, negative bool) triplet {
	logM2 := real(t.logM2)
	if singular(lmb, negative) {
		t.logM2 = complex(logM2, 0)
		return t
	}

	t.logM2 = complex(logM2-logAbsScale(lmb, negative), 0)
	if shiftMean {
		t.logmean = logmath.LogSumExp(t.logmean, logmath.LogMinusOne) - logDivisor(lmb, negative)
	}
	return t
}
