package federated

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/optimize"
	"github.com/sartorproj/fedpower/power"
)

// Server aggregates client statistics into the likelihood of λ.
type Server struct {
	family  power.Family
	clients []*Client
	logger  *slog.Logger
	metrics *Metrics
	workers int
}

// ServerOption configures a Server.
type ServerOption func(*Server) error

// WithLogger sets the server logger. The default discards everything.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}

// WithMetrics records rounds and fits in m.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

// WithWorkers computes client statistics on up to k goroutines per round.
// Replies are still merged in registration order.
func WithWorkers(k int) ServerOption {
	return func(s *Server) error {
		if k < 1 {
			return fmt.Errorf("workers must be positive, got %d", k)
		}
		s.workers = k
		return nil
	}
}

// NewServer creates a server over clients. Every client must use family f.
// The order of clients is the registration order used by pairwise merging.
func NewServer(f power.Family, clients []*Client, opts ...ServerOption) (*Server, error) {
	if len(clients) == 0 {
		return nil, errs.ErrNoClients
	}
	for i, c := range clients {
		if c == nil {
			return nil, fmt.Errorf("client %d is nil", i)
		}
		if c.family != f {
			return nil, fmt.Errorf("%w: client %d is %s, server is %s", errs.ErrFamilyMismatch, i, c.family, f)
		}
	}

	s := &Server{
		family:  f,
		clients: append([]*Client(nil), clients...),
		logger:  slog.New(slog.DiscardHandler),
		workers: 1,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Family returns the transform family.
func (s *Server) Family() power.Family { return s.family }

// Clients returns the number of registered clients.
func (s *Server) Clients() int { return len(s.clients) }

// collect asks every client for its statistics. The result is indexed by
// registration order whatever the number of workers.
func (s *Server) collect(lmbs []float64, mode VarianceMode) ([]*Statistics, error) {
	out := make([]*Statistics, len(s.clients))

	if s.workers <= 1 {
		for i, c := range s.clients {
			st, err := c.ComputeStatistics(lmbs, mode)
			if err != nil {
				return nil, fmt.Errorf("client %d: %w", i, err)
			}
			out[i] = st
		}
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, c := range s.clients {
		g.Go(func() error {
			st, err := c.ComputeStatistics(lmbs, mode)
			if err != nil {
				return fmt.Errorf("client %d: %w", i, err)
			}
			out[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Aggregate runs one round: every client evaluates every lambda and the
// server combines the replies into C, N and log Var(ψ) per lambda.
func (s *Server) Aggregate(lmbs []float64, mode VarianceMode) (*Aggregate, error) {
	if len(lmbs) == 0 {
		return nil, errs.ErrShape
	}
	start := time.Now()

	stats, err := s.collect(lmbs, mode)
	if err != nil {
		return nil, err
	}

	agg := &Aggregate{Lambdas: append([]float64(nil), lmbs...)}
	active := make([]*Statistics, 0, len(stats))
	for _, st := range stats {
		if st.N == 0 {
			continue
		}
		agg.C += st.C
		agg.N += st.N
		agg.NPos += st.NPos
		agg.NNeg += st.NNeg
		active = append(active, st)
	}
	if agg.N == 0 {
		return nil, errs.ErrEmptySample
	}

	combine := pairwiseLogVar
	if mode == Naive {
		combine = naiveLogVar
	}
	agg.LogVar = make([]float64, len(lmbs))
	for i := range lmbs {
		agg.LogVar[i] = combine(s.family, active, i)
	}

	s.metrics.observeRound(mode, len(s.clients), len(lmbs), time.Since(start))
	return agg, nil
}

// LogLikelihood returns the log-likelihood of every lambda over the union
// of the client partitions.
func (s *Server) LogLikelihood(lmbs []float64, mode VarianceMode) ([]float64, error) {
	agg, err := s.Aggregate(lmbs, mode)
	if err != nil {
		return nil, err
	}
	return agg.LogLikelihood(), nil
}

// LogLikelihoodAt is LogLikelihood for a single lambda.
func (s *Server) LogLikelihoodAt(lmb float64, mode VarianceMode) (float64, error) {
	lls, err := s.LogLikelihood([]float64{lmb}, mode)
	if err != nil {
		return 0, err
	}
	return lls[0], nil
}

// NegLogLikelihood returns the negated log-likelihood, the quantity the
// optimizers minimise.
func (s *Server) NegLogLikelihood(lmbs []float64, mode VarianceMode) ([]float64, error) {
	lls, err := s.LogLikelihood(lmbs, mode)
	if err != nil {
		return nil, err
	}
	for i := range lls {
		lls[i] = -lls[i]
	}
	return lls, nil
}

// Objective adapts NegLogLikelihood to the optimizers. Every call is one
// round.
func (s *Server) Objective(mode VarianceMode) optimize.Objective {
	return func(lmbs []float64) ([]float64, error) {
		return s.NegLogLikelihood(lmbs, mode)
	}
}

// FitOptions configures Fit.
type FitOptions struct {
	Bracket    []float64              // Initial bracket (default: [-2, 2])
	Variance   VarianceMode           // Aggregation strategy (default: Pairwise)
	Method     optimize.Method        // Optimizer (default: Brent)
	GridPoints int                    // Interior points per grid round (default: 20)
	Settings   optimize.Settings      // Grid search settings (default: optimize.DefaultSettings)
	Brent      optimize.BrentSettings // Brent settings (default: optimize.DefaultBrentSettings)
}

// DefaultFitOptions returns the default fit options.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		Bracket:    append([]float64(nil), power.DefaultBracket...),
		Variance:   Pairwise,
		Method:     optimize.MethodBrent,
		GridPoints: optimize.DefaultGridPoints,
		Settings:   optimize.DefaultSettings(),
		Brent:      optimize.DefaultBrentSettings(),
	}
}

// FitResult is the outcome of Fit.
type FitResult struct {
	RunID      string          `json:"run_id"`
	Lambda     float64         `json:"lambda"`
	NLL        float64         `json:"nll"`
	Rounds     int             `json:"rounds"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
	Method     optimize.Method `json:"-"`
	Variance   VarianceMode    `json:"-"`
}

// Fit finds the λ minimising the federated negative log-likelihood.
// Zero-valued fields of opts take their defaults.
//
// When the objective turns NaN the best λ seen so far is returned together
// with an error wrapping errs.ErrNumericAnomaly.
func (s *Server) Fit(opts FitOptions) (*FitResult, error) {
	if opts.Bracket == nil {
		opts.Bracket = power.DefaultBracket
	}
	if opts.GridPoints == 0 {
		opts.GridPoints = optimize.DefaultGridPoints
	}
	if opts.Settings.MaxIter == 0 {
		opts.Settings = optimize.DefaultSettings()
	}
	if opts.Brent.MaxIter == 0 {
		opts.Brent = optimize.DefaultBrentSettings()
	}

	runID := uuid.NewString()
	logger := s.logger.With(
		"run_id", runID,
		"family", s.family.String(),
		"method", opts.Method.String(),
		"variance", opts.Variance.String(),
	)

	rounds := 0
	objective := func(lmbs []float64) ([]float64, error) {
		rounds++
		nll, err := s.NegLogLikelihood(lmbs, opts.Variance)
		if err != nil {
			return nil, err
		}
		logger.Debug("round", "round", rounds, "points", len(lmbs))
		return nll, nil
	}

	var (
		res *optimize.Result
		err error
	)
	switch opts.Method {
	case optimize.MethodBrent:
		res, err = optimize.Brent(objective, opts.Bracket, opts.Brent)
	case optimize.MethodGrid:
		res, err = optimize.GridSearch(objective, opts.Bracket, opts.GridPoints, opts.Settings)
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrUnknownMethod, opts.Method)
	}

	if res == nil {
		logger.Error("fit failed", "rounds", rounds, "error", err)
		return nil, fmt.Errorf("fit: %w", err)
	}

	out := &FitResult{
		RunID:      runID,
		Lambda:     res.X,
		NLL:        res.F,
		Rounds:     res.Rounds,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Method:     opts.Method,
		Variance:   opts.Variance,
	}
	if err != nil {
		if errors.Is(err, errs.ErrNumericAnomaly) {
			logger.Warn("fit stopped early", "lambda", out.Lambda, "rounds", out.Rounds, "error", err)
		}
		return out, fmt.Errorf("fit: %w", err)
	}

	s.metrics.observeFit(opts.Method.String(), opts.Variance)
	logger.Info("fit finished",
		"lambda", out.Lambda,
		"nll", out.NLL,
		"rounds", out.Rounds,
		"converged", out.Converged,
	)
	return out, nil
}
