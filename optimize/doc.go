// Package optimize implements the one-dimensional searches used to fit the
// power transform exponent.
//
// The minimizers take a batched Objective: every call evaluates a slice of
// points at once and counts as one round. In the federated setting a round
// is one request answered by every client, so Result.Rounds is the
// communication cost of a fit.
//
// # Brent's Method
//
// Brent evaluates one point per round:
//
//	f := optimize.Scalar(func(x float64) float64 { return (x - 3) * (x - 3) })
//	res, err := optimize.Brent(f, []float64{0, 1}, optimize.DefaultBrentSettings())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("x=%.6f after %d rounds\n", res.X, res.Rounds)
//
// # Grid Search
//
// GridSearch evaluates a whole grid per round, trading work per round for
// fewer rounds:
//
//	res, err := optimize.GridSearch(f, []float64{-2, 2}, 20, optimize.DefaultSettings())
//
// Both accept a nil bracket, a two-point seed for the downhill Bracket
// search, or a validated three-point bracket.
//
// # Exponential Search
//
// ExpSearch root-finds a derivative without an initial bracket. The probe
// doubles away from zero until the sign of the derivative flips, then
// bisects:
//
//	res := optimize.ExpSearch(deriv, optimize.DefaultSettings())
//	fmt.Println(res.Lambda, res.Reason)
package optimize
