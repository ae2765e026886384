package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/fedpower/optimize"
	"github.com/sartorproj/fedpower/power"
)

func (a *app) newExpSearchCmd() *cobra.Command {
	var (
		secure  bool
		maxIter int
		trace   bool
	)

	cmd := &cobra.Command{
		Use:   "expsearch",
		Short: "Run the single-party exponential search and compare it with Brent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			r, err := cfg.Resolve()
			if err != nil {
				return err
			}
			s, err := loadSample(cfg)
			if err != nil {
				return err
			}
			x := s.DropNaN().Values

			formula := power.TrueDerivative
			if secure {
				formula = power.SecureDerivative
			}
			settings := optimize.DefaultSettings()
			settings.MaxIter = maxIter

			res, err := power.ExpSearch(r.Family, x, formula, settings)
			if err != nil {
				return err
			}
			a.logger.Info("exponential search finished",
				"family", r.Family.String(),
				"formula", formula.String(),
				"reason", res.Reason.String(),
				"iterations", res.Iterations,
			)

			w := cmd.OutOrStdout()
			if trace {
				for _, st := range res.Trace {
					fmt.Fprintf(w, "%4d lambda=%-14.8g neg=%-14.8g pos=%-14.8g sign=%g\n",
						st.Iter, st.Lambda, st.Neg, st.Pos, st.Sign)
				}
			}
			fmt.Fprintf(w, "expsearch  lambda=%.8f iterations=%d stop=%s\n", res.Lambda, res.Iterations, res.Reason)

			ref, err := power.MLE(r.Family, x, power.LogDomain, cfg.Bracket)
			if ref == nil {
				return err
			}
			fmt.Fprintf(w, "brent      lambda=%.8f rounds=%d diff=%.3g\n", ref.X, ref.Rounds, res.Lambda-ref.X)
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&secure, "secure", false, "use the division-free derivative")
	f.IntVar(&maxIter, "max-iter", optimize.DefaultSettings().MaxIter, "maximum probes")
	f.BoolVar(&trace, "trace", false, "print every probe")
	f.Float64Slice("bracket", nil, "bracket of the reference Brent fit (default -2,2)")
	return cmd
}
