// Package power implements the Box-Cox and Yeo-Johnson power transforms,
// their derivatives with respect to lambda, and the profile log-likelihood
// of lambda on a single party's data.
//
// The log-likelihood of a sample x under exponent λ is
//
//	ℓ(λ) = (λ-1)·c - n/2·log(Var(ψ_λ(x)))
//
// where c = Σ log(x) for Box-Cox and Σ sign(x)·log(1+|x|) for Yeo-Johnson.
// Computing Var(ψ_λ(x)) directly overflows as soon as x^λ leaves the
// float64 range, which happens for very reasonable data: the sample
// [10, 10, 10, 9.9] has its maximum near λ = 358.
//
// # Log-Domain Likelihood
//
// LogLikelihood in LogDomain mode never forms x^λ. It computes the variance
// of the transformed sample from the logs of the transformed values with
// the primitives of the logmath package:
//
//	ll, err := power.LogLikelihood(power.BoxCox, 358, []float64{10, 10, 10, 9.9}, power.LogDomain)
//
// Linear mode follows the textbook formula and is kept for comparison.
//
// # Fitting
//
// MLE maximises the log-likelihood with Brent's method:
//
//	res, err := power.MLE(power.YeoJohnson, x, power.LogDomain, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("lambda=%.6f nll=%.6f\n", res.X, res.F)
//
// ExpSearch finds the same optimum from the sign of ∂NLL/∂λ, without a
// bracket. It uses linear arithmetic and stops at the first NaN.
//
// # Singular Points
//
// The transform has a removable singularity at λ = 0 (and at λ = 2 for
// negative Yeo-Johnson inputs). Lambdas within Eps of those points use the
// logarithmic limit.
package power
