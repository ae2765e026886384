package optimize

import (
	"fmt"
	"math"

	"github.com/sartorproj/fedpower/errs"
)

const (
	brentMinTol = 1e-11
	brentCGold  = 0.3819660
)

// BrentSettings configures Brent.
type BrentSettings struct {
	Tol     float64 // Relative tolerance on x (default: 1.48e-8)
	MaxIter int     // Maximum number of iterations (default: 500)
}

// DefaultBrentSettings returns the default Brent settings.
func DefaultBrentSettings() BrentSettings {
	return BrentSettings{
		Tol:     1.48e-8,
		MaxIter: 500,
	}
}

// Brent minimizes f with Brent's method, combining golden-section steps and
// inverse parabolic interpolation. It evaluates one point per round.
//
// The bracket may be nil, two points to seed a downhill bracket search, or
// three points xa < xb < xc with f(xb) below both ends.
//
// A NaN objective value stops the search; the best point seen so far is
// returned together with an error wrapping errs.ErrNumericAnomaly.
func Brent(f Objective, brack []float64, s BrentSettings) (*Result, error) {
	br, err := initialBracket(f, brack)
	if err != nil {
		return nil, err
	}

	a, b := br.XA, br.XC
	if a > b {
		a, b = b, a
	}
	x, w, v := br.XB, br.XB, br.XB
	fx, fw, fv := br.FB, br.FB, br.FB
	rounds := br.Rounds

	var deltax, rat float64
	iter := 0
	converged := false
	for ; iter < s.MaxIter; iter++ {
		tol1 := s.Tol*math.Abs(x) + brentMinTol
		tol2 := 2 * tol1
		xmid := (a + b) / 2
		if math.Abs(x-xmid) < tol2-(b-a)/2 {
			converged = true
			break
		}

		if math.Abs(deltax) <= tol1 {
			deltax = goldenStep(x, xmid, a, b)
			rat = brentCGold * deltax
		} else {
			tmp1 := (x - w) * (fx - fv)
			tmp2 := (x - v) * (fx - fw)
			p := (x-v)*tmp2 - (x-w)*tmp1
			tmp2 = 2 * (tmp2 - tmp1)
			if tmp2 > 0 {
				p = -p
			}
			tmp2 = math.Abs(tmp2)
			prev := deltax
			deltax = rat

			if p > tmp2*(a-x) && p < tmp2*(b-x) && math.Abs(p) < math.Abs(tmp2*prev/2) {
				rat = p / tmp2
				u := x + rat
				if u-a < tol2 || b-u < tol2 {
					if xmid-x >= 0 {
						rat = tol1
					} else {
						rat = -tol1
					}
				}
			} else {
				deltax = goldenStep(x, xmid, a, b)
				rat = brentCGold * deltax
			}
		}

		var u float64
		if math.Abs(rat) < tol1 {
			if rat >= 0 {
				u = x + tol1
			} else {
				u = x - tol1
			}
		} else {
			u = x + rat
		}

		fu, err := eval1(f, u)
		rounds++
		if err != nil {
			return nil, err
		}
		if math.IsNaN(fu) {
			return &Result{X: x, F: fx, Rounds: rounds, Iterations: iter + 1},
				fmt.Errorf("%w: objective is NaN at %g", errs.ErrNumericAnomaly, u)
		}

		if fu > fx {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, w = w, u
				fv, fw = fw, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		} else {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		}
	}

	return &Result{X: x, F: fx, Rounds: rounds, Iterations: iter, Converged: converged}, nil
}

// goldenStep points from x into the larger half of [a, b].
func goldenStep(x, xmid, a, b float64) float64 {
	if x >= xmid {
		return a - x
	}
	return b - x
}
