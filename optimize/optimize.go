package optimize

import (
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/fedpower/errs"
)

// Objective evaluates a function at a batch of points. One call is one
// round: in the federated setting every client answers once per call.
type Objective func(xs []float64) ([]float64, error)

// Scalar adapts a plain function to an Objective.
func Scalar(fn func(float64) float64) Objective {
	return func(xs []float64) ([]float64, error) {
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = fn(x)
		}
		return out, nil
	}
}

// eval1 evaluates f at a single point.
func eval1(f Objective, x float64) (float64, error) {
	fs, err := f([]float64{x})
	if err != nil {
		return 0, err
	}
	if len(fs) != 1 {
		return 0, fmt.Errorf("objective returned %d values for 1 point", len(fs))
	}
	return fs[0], nil
}

// Settings holds the convergence settings shared by the bisection-style
// searches.
type Settings struct {
	XTol    float64 // Absolute tolerance (default: 2e-12)
	RTol    float64 // Relative tolerance (default: 4 * machine epsilon)
	MaxIter int     // Maximum number of iterations (default: 100)
}

// DefaultSettings returns the default search settings.
func DefaultSettings() Settings {
	return Settings{
		XTol:    2e-12,
		RTol:    4 * 0x1p-52,
		MaxIter: 100,
	}
}

// converged reports whether a bracket of the given width around x is tight
// enough.
func (s Settings) converged(width, x float64) bool {
	return math.Abs(width/2) < s.XTol+s.RTol*math.Abs(x)
}

// Result is the outcome of a minimization.
type Result struct {
	X          float64 // Location of the minimum
	F          float64 // Objective value at X
	Rounds     int     // Objective calls, including bracketing
	Iterations int     // Iterations of the main loop
	Converged  bool    // Whether the tolerance was met before MaxIter
}

// Method selects a minimizer.
type Method int

const (
	// MethodBrent is Brent's method: one point per round.
	MethodBrent Method = iota
	// MethodGrid is the multi-point grid search.
	MethodGrid
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodBrent:
		return "brent"
	case MethodGrid:
		return "grid"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses "brent" or "grid".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brent":
		return MethodBrent, nil
	case "grid", "gridsearch":
		return MethodGrid, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownMethod, s)
	}
}
