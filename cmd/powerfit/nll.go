package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/fedpower/federated"
	"github.com/sartorproj/fedpower/power"
)

// jsonFloat encodes NaN and ±Inf as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func toJSON(x []float64) []jsonFloat {
	out := make([]jsonFloat, len(x))
	for i, v := range x {
		out[i] = jsonFloat(v)
	}
	return out
}

// curveOptions is the λ grid of the nll command.
type curveOptions struct {
	From  float64 `validate:"ltfield=To"`
	To    float64
	Steps int `validate:"gte=2"`
}

// Curves holds the negative log-likelihood of every evaluation path on a
// shared λ grid.
type Curves struct {
	Family   string      `json:"family"`
	Clients  int         `json:"clients"`
	Seed     uint64      `json:"seed"`
	Lambdas  []float64   `json:"lambdas"`
	Naive    []jsonFloat `json:"naive"`
	Pairwise []jsonFloat `json:"pairwise"`
	Log      []jsonFloat `json:"log"`
	Linear   []jsonFloat `json:"linear"`
}

func (a *app) newNLLCmd() *cobra.Command {
	var curve curveOptions

	cmd := &cobra.Command{
		Use:   "nll",
		Short: "Export NLL curves for naive, pairwise, log-domain and linear evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd)
			if err != nil {
				return err
			}
			if err := newValidator().Struct(curve); err != nil {
				return fmt.Errorf("invalid grid: %w", err)
			}
			c, err := a.runNLL(cfg, curve)
			if err != nil {
				return err
			}
			if cfg.Output != "" {
				return writeJSON(cfg.Output, c)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&curve.From, "from", -2, "first lambda")
	f.Float64Var(&curve.To, "to", 2, "last lambda")
	f.IntVar(&curve.Steps, "steps", 81, "number of lambdas")
	f.Int("clients", 1, "number of clients")
	f.Int("workers", 1, "goroutines computing client statistics")
	f.Uint64("seed", 0, "partition seed")
	f.String("output", "", "write the curves as JSON instead of printing them")
	return cmd
}

func (a *app) runNLL(cfg *RunConfig, curve curveOptions) (*Curves, error) {
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	s, err := loadSample(cfg)
	if err != nil {
		return nil, err
	}
	x := s.DropNaN().Values
	lmbs := floats.Span(make([]float64, curve.Steps), curve.From, curve.To)

	srv, err := a.newServer(r.Family, x, cfg.Clients, cfg.Seed, cfg.Workers, nil)
	if err != nil {
		return nil, err
	}
	naive, err := srv.NegLogLikelihood(lmbs, federated.Naive)
	if err != nil {
		return nil, err
	}
	pairwise, err := srv.NegLogLikelihood(lmbs, federated.Pairwise)
	if err != nil {
		return nil, err
	}

	single := func(mode power.Mode) ([]jsonFloat, error) {
		ll, err := power.LogLikelihoods(r.Family, lmbs, x, mode)
		if err != nil {
			return nil, err
		}
		floats.Scale(-1, ll)
		return toJSON(ll), nil
	}
	logNLL, err := single(power.LogDomain)
	if err != nil {
		return nil, err
	}
	linNLL, err := single(power.Linear)
	if err != nil {
		return nil, err
	}

	return &Curves{
		Family:   r.Family.String(),
		Clients:  cfg.Clients,
		Seed:     cfg.Seed,
		Lambdas:  lmbs,
		Naive:    toJSON(naive),
		Pairwise: toJSON(pairwise),
		Log:      logNLL,
		Linear:   linNLL,
	}, nil
}
