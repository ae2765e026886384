// Package federated fits a power transform exponent over data split across
// clients that never share raw values.
//
// Each Client holds one partition and answers a batch of lambdas with
// log-domain summaries of its transformed values. The Server collects one
// reply from every client per round, combines them into the variance of the
// transformed union, and evaluates the profile log-likelihood. The result is
// the same, up to rounding, as evaluating power.LogLikelihood on the pooled
// sample.
//
// # Basic Usage
//
//	parts, err := partition.Split(x, 10, seed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	clients := make([]*federated.Client, len(parts))
//	for i, p := range parts {
//	    if clients[i], err = federated.NewClient(power.YeoJohnson, p); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	server, err := federated.NewServer(power.YeoJohnson, clients,
//	    federated.WithLogger(logger),
//	    federated.WithWorkers(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts := federated.DefaultFitOptions()
//	opts.Method = optimize.MethodGrid
//	res, err := server.Fit(opts)
//	fmt.Printf("lambda=%.6f in %d rounds\n", res.Lambda, res.Rounds)
//
// # Variance Modes
//
// Naive clients send log Σψ and log Σψ² and the server forms E[ψ²] - E[ψ]²
// in one pass. Pairwise clients send their count, log mean and log M2 (two
// pass), and the server merges them two at a time: the first two entries of
// the queue are merged and the result goes to the back. Both run entirely
// in the log domain.
//
// Yeo-Johnson partitions holding a single sign send the power term without
// the -1 shift and 1/λ scale, which the server reapplies per sign group.
//
// # Rounds
//
// Every call of the optimizer objective is one round. FitResult.Rounds is
// the number of times every client had to answer, the communication cost of
// the fit. Grid search evaluates many lambdas per round and needs fewer
// rounds than Brent's method.
package federated
