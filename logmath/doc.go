// Package logmath provides the log-domain primitives used by the power
// transform likelihoods.
//
// Values are carried as complex logarithms: a positive x is log(x) + 0i and
// a negative x is log(|x|) + πi. Sums, differences and squares of such
// values never leave the log domain, so quantities like x^λ for λ in the
// hundreds can be summed without overflowing.
//
// # Log-sum-exp
//
//	// log(e^2 + e^3)
//	z := logmath.LogSumExp(2, 3)
//
//	// log(e^3 - e^2), still a positive number
//	d := logmath.LogSub(3, 2)
//
//	// log(e^2 - e^3) carries a π imaginary part (negative value)
//	n := logmath.LogSub(2, 3)
//
// # Moments
//
// LogMean, LogM2 and LogVar compute the mean, centred sum of squares and
// population variance of the values encoded by a slice of logs. LogM2 is the
// second pass of the two-pass algorithm: every deviation x - mean is formed
// as LogSub(logx, logmean) before squaring.
package logmath
