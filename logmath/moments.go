package logmath

import "math"

// LogMean returns the log of the mean of the values encoded by logx.
func LogMean(logx []complex128) complex128 {
	return LogSumExp(logx...) - complex(math.Log(float64(len(logx))), 0)
}

// LogSumSq returns the log of Σx² for the values encoded by logx.
// Only the real part is kept; the squares of real values are non-negative.
func LogSumSq(logx []complex128) float64 {
	sq := make([]complex128, len(logx))
	for i, z := range logx {
		sq[i] = Scale(z, 2)
	}
	return real(LogSumExp(sq...))
}

// LogM2 returns the log of Σ(x - mean)² given the log of the mean.
// This is the second pass of the two-pass variance algorithm.
func LogM2(logx []complex128, logmean complex128) float64 {
	dev := make([]complex128, len(logx))
	for i, z := range logx {
		dev[i] = Scale(LogSub(z, logmean), 2)
	}
	return real(LogSumExp(dev...))
}

// LogVar returns the log of the population variance of the values encoded
// by logx, computed with two passes in the log domain.
func LogVar(logx []complex128) float64 {
	n := float64(len(logx))
	return LogM2(logx, LogMean(logx)) - math.Log(n)
}
