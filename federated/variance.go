package federated

import (
	"fmt"
	"strings"

	"github.com/sartorproj/fedpower/errs"
)

// VarianceMode selects how clients summarise their data and how the server
// combines the summaries into a variance.
type VarianceMode int

const (
	// Pairwise sends (log mean, log M2) per client and merges them two at a
	// time in registration order.
	Pairwise VarianceMode = iota
	// Naive sends (log Σψ, log Σψ²) per client and combines them in a single
	// pass as E[ψ²] - E[ψ]².
	Naive
)

// String returns the mode name.
func (m VarianceMode) String() string {
	switch m {
	case Pairwise:
		return "pairwise"
	case Naive:
		return "naive"
	default:
		return fmt.Sprintf("VarianceMode(%d)", int(m))
	}
}

// ParseVarianceMode parses "pairwise" or "naive".
func ParseVarianceMode(s string) (VarianceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pairwise":
		return Pairwise, nil
	case "naive":
		return Naive, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownVarianceMode, s)
	}
}
