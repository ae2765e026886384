package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/power"
	"github.com/sartorproj/fedpower/sample"
)

func (a *app) newTransformCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply the power transform to the sample and write it as CSV",
		Long: "Apply the power transform to the sample and write it as CSV.\n" +
			"Without --lambda the single-party maximum likelihood lambda is used.",
		Args: cobra.NoArgs,
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

			if r.Family == power.BoxCox && !s.Positive() {
				return fmt.Errorf("transform %s: %w", s.Name, errs.ErrDomain)
			}

			lmb, _ := cmd.Flags().GetFloat64("lambda")
			if !cmd.Flags().Changed("lambda") {
				res, err := power.MLE(r.Family, s.Values, power.LogDomain, nil)
				if err != nil {
					return err
				}
				lmb = res.X
			}

			t := s.Transform(r.Family, lmb)
			a.logger.Info("transformed", "column", s.Name, "lambda", lmb, "n", t.Len())
			if out == "" {
				return sample.WriteCSV(cmd.OutOrStdout(), t)
			}
			return sample.SaveCSV(t, out)
		},
	}

	f := cmd.Flags()
	f.Float64("lambda", 0, "exponent (fitted when omitted)")
	f.StringVar(&out, "out", "", "output CSV (default: stdout)")
	return cmd
}
