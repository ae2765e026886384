// Package fedpower fits Box-Cox and Yeo-Johnson power transforms when the
// sample is split across clients that only share aggregatable summaries.
//
// Every client publishes, for a batch of candidate exponents λ, the logs of
// its partial sums. The server combines them in the log domain, so the
// profile log-likelihood stays finite even when x^λ overflows float64, and
// minimises the negative log-likelihood with Brent's method or a multi-point
// grid search. The result matches the single-party fit on the pooled data.
//
// # Quick Start
//
// Split a sample, fit, and compare with the single-party estimate:
//
//	parts, _ := partition.Split(x, 4, 1)
//	clients := make([]*federated.Client, len(parts))
//	for i, p := range parts {
//	    clients[i], _ = federated.NewClient(power.BoxCox, p)
//	}
//	srv, _ := federated.NewServer(power.BoxCox, clients)
//	res, _ := srv.Fit(federated.DefaultFitOptions())
//
//	ref, _ := power.MLE(power.BoxCox, x, power.LogDomain, nil)
//	fmt.Println(res.Lambda, ref.X)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - logmath: Log-domain complex arithmetic and moments
//   - power: Transforms, derivatives and single-party likelihood
//   - optimize: Bracketing, Brent, grid search and exponential search
//   - federated: Clients, naive and pairwise aggregation, fitting
//   - partition: Seeded splitting of a sample across clients
//   - sample: Sample container, summaries and CSV input/output
//   - errs: Sentinel errors
//
// The powerfit command in cmd/powerfit drives simulations from a CSV file.
package fedpower
