package power

import (
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/fedpower/errs"
)

// Eps is the spacing of floating point numbers at 1.0. Lambdas within Eps of
// a singular point (0 for Box-Cox and the positive Yeo-Johnson branch, 2 for
// the negative branch) use the limiting logarithmic form.
const Eps = 0x1p-52

// Family selects the transform.
type Family int

const (
	// BoxCox is defined for strictly positive data.
	BoxCox Family = iota
	// YeoJohnson is defined for all real data.
	YeoJohnson
)

// String returns the canonical family name.
func (f Family) String() string {
	switch f {
	case BoxCox:
		return "boxcox"
	case YeoJohnson:
		return "yeojohnson"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// ParseFamily parses "boxcox" or "yeojohnson" (case-insensitive, dashes and
// underscores ignored).
func ParseFamily(s string) (Family, error) {
	name := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(s)))
	switch name {
	case "boxcox", "bc":
		return BoxCox, nil
	case "yeojohnson", "yj":
		return YeoJohnson, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownFamily, s)
	}
}

// Mode selects how the variance of the transformed sample is computed.
type Mode int

const (
	// LogDomain keeps all arithmetic in the log domain and cannot overflow.
	LogDomain Mode = iota
	// Linear computes the transform directly and may overflow for large
	// |lambda| or extreme data.
	Linear
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case LogDomain:
		return "log"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// nearZero reports whether lmb is within Eps of zero.
func nearZero(lmb float64) bool {
	return math.Abs(lmb) < Eps
}

// nearTwo reports whether lmb is within Eps of two.
func nearTwo(lmb float64) bool {
	return math.Abs(lmb-2) < Eps
}

// Prepare drops NaN values and validates the sample for the family.
// The returned slice is a fresh copy.
func Prepare(f Family, x []float64) ([]float64, error) {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if f == BoxCox && v <= 0 {
			return nil, fmt.Errorf("%w: got %v", errs.ErrDomain, v)
		}
		out = append(out, v)
	}
	return out, nil
}
