package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/federated"
	"github.com/sartorproj/fedpower/partition"
	"github.com/sartorproj/fedpower/power"
	"github.com/sartorproj/fedpower/sample"
)

// RepResult is one repetition of a federated fit.
type RepResult struct {
	Rep        int     `json:"rep"`
	Seed       uint64  `json:"seed"`
	RunID      string  `json:"run_id"`
	Lambda     float64 `json:"lambda"`
	NLL        float64 `json:"nll"`
	Rounds     int     `json:"rounds"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Error      string  `json:"error,omitempty"`
}

// FitReport is the JSON export of the fit command.
type FitReport struct {
	Data      string             `json:"data"`
	Column    string             `json:"column"`
	Summary   sample.Summary     `json:"summary"`
	Family    string             `json:"family"`
	Variance  string             `json:"variance"`
	Method    string             `json:"method"`
	Clients   int                `json:"clients"`
	Reference *RepResult         `json:"reference,omitempty"` // single-party log-domain Brent
	Reps      []RepResult        `json:"reps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (a *app) newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Partition the sample and fit lambda over the simulated clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			report, err := a.runFit(cfg)
			if err != nil {
				return err
			}
			printFit(cmd, report)
			if cfg.Output != "" {
				return writeJSON(cfg.Output, report)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("variance", "pairwise", "aggregation: pairwise or naive")
	f.String("method", "brent", "optimizer: brent or grid")
	f.Int("grid-points", 20, "interior points per grid round")
	f.Int("clients", 1, "number of clients")
	f.Int("workers", 1, "goroutines computing client statistics")
	f.Uint64("seed", 0, "seed of the first repetition; repetition r uses seed+r")
	f.Int("reps", 1, "repetitions")
	f.Float64Slice("bracket", nil, "initial bracket, two or three values (default -2,2)")
	f.String("output", "", "write the report as JSON")
	return cmd
}

func loadSample(cfg *RunConfig) (*sample.Sample, error) {
	s, err := sample.LoadCSVColumn(cfg.Data, cfg.Column)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Data, err)
	}
	return s, nil
}

func (a *app) runFit(cfg *RunConfig) (*FitReport, error) {
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	s, err := loadSample(cfg)
	if err != nil {
		return nil, err
	}
	x := s.DropNaN().Values

	report := &FitReport{
		Data:     cfg.Data,
		Column:   s.Name,
		Summary:  s.Describe(),
		Family:   r.Family.String(),
		Variance: r.Variance.String(),
		Method:   r.Method.String(),
		Clients:  cfg.Clients,
	}

	opts := federated.DefaultFitOptions()
	opts.Variance = r.Variance
	opts.Method = r.Method
	opts.GridPoints = cfg.GridPoints
	if len(cfg.Bracket) > 0 {
		opts.Bracket = cfg.Bracket
	}

	ref, err := power.MLE(r.Family, x, power.LogDomain, opts.Bracket)
	if ref == nil {
		return nil, err
	}
	report.Reference = &RepResult{
		Lambda:     ref.X,
		NLL:        ref.F,
		Rounds:     ref.Rounds,
		Iterations: ref.Iterations,
		Converged:  ref.Converged,
	}
	if err != nil {
		report.Reference.Error = err.Error()
	}

	reg := prometheus.NewRegistry()
	metrics := federated.NewMetrics(reg)

	for rep := 0; rep < cfg.Reps; rep++ {
		seed := cfg.Seed + uint64(rep)
		srv, err := a.newServer(r.Family, x, cfg.Clients, seed, cfg.Workers, metrics)
		if err != nil {
			return nil, err
		}

		res, err := srv.Fit(opts)
		if res == nil {
			return nil, fmt.Errorf("repetition %d: %w", rep, err)
		}
		out := RepResult{
			Rep:        rep,
			Seed:       seed,
			RunID:      res.RunID,
			Lambda:     res.Lambda,
			NLL:        res.NLL,
			Rounds:     res.Rounds,
			Iterations: res.Iterations,
			Converged:  res.Converged,
		}
		if err != nil {
			if !errors.Is(err, errs.ErrNumericAnomaly) {
				return nil, fmt.Errorf("repetition %d: %w", rep, err)
			}
			out.Error = err.Error()
		}
		report.Reps = append(report.Reps, out)
	}

	report.Metrics, err = counterTotals(reg)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (a *app) newServer(f power.Family, x []float64, k int, seed uint64, workers int, m *federated.Metrics) (*federated.Server, error) {
	parts, err := partition.Split(x, k, seed)
	if err != nil {
		return nil, err
	}
	clients := make([]*federated.Client, len(parts))
	for i, p := range parts {
		if clients[i], err = federated.NewClient(f, p); err != nil {
			return nil, fmt.Errorf("client %d: %w", i, err)
		}
	}
	return federated.NewServer(f, clients,
		federated.WithLogger(a.logger.With(slog.Uint64("seed", seed))),
		federated.WithMetrics(m),
		federated.WithWorkers(workers),
	)
}

// counterTotals sums every counter family in reg over its labels.
func counterTotals(reg *prometheus.Registry) (map[string]float64, error) {
	mfs, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				out[mf.GetName()] += c.GetValue()
			}
		}
	}
	return out, nil
}

func printFit(cmd *cobra.Command, r *FitReport) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: n=%d family=%s variance=%s method=%s clients=%d\n",
		r.Column, r.Summary.N, r.Family, r.Variance, r.Method, r.Clients)
	if ref := r.Reference; ref != nil {
		fmt.Fprintf(w, "single party  lambda=%.6f nll=%.6f rounds=%d\n", ref.Lambda, ref.NLL, ref.Rounds)
	}
	for _, rep := range r.Reps {
		fmt.Fprintf(w, "rep %-3d seed=%-4d lambda=%.6f nll=%.6f rounds=%d converged=%t\n",
			rep.Rep, rep.Seed, rep.Lambda, rep.NLL, rep.Rounds, rep.Converged)
	}
}
