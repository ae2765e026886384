package federated

import (
	"math"

	"github.com/sartorproj/fedpower/logmath"
	"github.com/sartorproj/fedpower/power"
)

// naiveLogVar combines naive statistics into log Var(ψ) for lambda index i.
func naiveLogVar(f power.Family, stats []*Statistics, i int) float64 {
	lmb := stats[0].Lambdas[i]
	g := groupBySign(stats)

	if f == power.BoxCox || (g.nNeg == 0 && g.nMix == 0) {
		logvar := naiveVariance(firsts(g.pos, i), seconds(g.pos, i), g.nPos)
		if !nearZero(lmb) {
			logvar -= logAbsScale(lmb, false)
		}
		return logvar
	}

	if g.nPos == 0 && g.nMix == 0 {
		logvar := naiveVariance(firsts(g.neg, i), seconds(g.neg, i), g.nNeg)
		if !nearTwo(lmb) {
			logvar -= logAbsScale(lmb, true)
		}
		return logvar
	}

	// Mixed signs: undo the shift and scale of every single-sign group so
	// all totals describe ψ itself, then combine the groups.
	var sums, sumsqs []complex128
	if g.nPos > 0 {
		s, sq := unshiftSums(lmb, firsts(g.pos, i), seconds(g.pos, i), g.nPos, false)
		sums, sumsqs = append(sums, s), append(sumsqs, sq)
	}
	if g.nNeg > 0 {
		s, sq := unshiftSums(lmb, firsts(g.neg, i), seconds(g.neg, i), g.nNeg, true)
		sums, sumsqs = append(sums, s), append(sumsqs, sq)
	}
	if g.nMix > 0 {
		sums = append(sums, logmath.LogSumExp(firsts(g.mix, i)...))
		sumsqs = append(sumsqs, logmath.LogSumExp(seconds(g.mix, i)...))
	}
	return naiveVariance(sums, sumsqs, g.nPos+g.nNeg+g.nMix)
}

// naiveVariance is log(E[y²] - E[y]²) from per-client log Σy and log Σy².
func naiveVariance(logsums, logsumsqs []complex128, n int) float64 {
	ln := logCount(n)
	logmean := logmath.LogSumExp(logsums...) - ln
	logmeansq := logmath.LogSumExp(logsumsqs...) - ln
	return real(logmath.LogSumExp(logmeansq, logmath.Scale(logmean, 2)+logmath.LogMinusOne))
}

// unshiftSums turns the totals of y = (1±x)^p into totals of ψ = (y-1)/d,
// d = λ or λ-2:
//
//	Σψ² = (Σy² - 2Σy + n) / d²
//	Σψ  = (Σy - n) / d
//
// At the singular point the clients already sent ψ and the totals are
// returned as is.
func unshiftSums(lmb float64, logsums, logsumsqs []complex128, n int, negative bool) (complex128, complex128) {
	sum := logmath.LogSumExp(logsums...)
	sumsq := logmath.LogSumExp(logsumsqs...)
	if singular(lmb, negative) {
		return sum, sumsq
	}

	ln := logCount(n)
	sumsq = logmath.LogSumExp(sumsq, sum+complex(math.Ln2, 0)+logmath.LogMinusOne, ln) -
		complex(logAbsScale(lmb, negative), 0)
	sum = logmath.LogSumExp(sum, ln+logmath.LogMinusOne) - logDivisor(lmb, negative)
	return sum, sumsq
}
