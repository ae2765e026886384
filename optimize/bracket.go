package optimize

import (
	"fmt"
	"math"

	"github.com/sartorproj/fedpower/errs"
)

const (
	goldenRatio    = 1.618034
	growLimit      = 110.0
	bracketMaxIter = 1000
	verySmall      = 1e-21
)

// BracketResult is a triple xa, xb, xc with f(xb) below both ends.
type BracketResult struct {
	XA, XB, XC float64
	FA, FB, FC float64
	Rounds     int // Objective calls spent finding the bracket
}

// Bracket searches downhill from xa and xb, growing the step by the golden
// ratio with parabolic extrapolation, until it holds a minimum.
// Every function evaluation is one round.
func Bracket(f Objective, xa, xb float64) (*BracketResult, error) {
	fa, err := eval1(f, xa)
	if err != nil {
		return nil, err
	}
	fb, err := eval1(f, xb)
	if err != nil {
		return nil, err
	}
	if fa < fb {
		xa, xb = xb, xa
		fa, fb = fb, fa
	}
	xc := xb + goldenRatio*(xb-xa)
	fc, err := eval1(f, xc)
	if err != nil {
		return nil, err
	}
	rounds := 3

	eval := func(x float64) (float64, error) {
		rounds++
		return eval1(f, x)
	}

	for iter := 0; fc < fb; iter++ {
		tmp1 := (xb - xa) * (fb - fc)
		tmp2 := (xb - xc) * (fb - fa)
		val := tmp2 - tmp1
		denom := 2 * val
		if math.Abs(val) < verySmall {
			denom = 2 * verySmall
		}
		w := xb - ((xb-xc)*tmp2-(xb-xa)*tmp1)/denom
		wlim := xb + growLimit*(xc-xb)
		if iter > bracketMaxIter {
			return nil, fmt.Errorf("%w: too many iterations", errs.ErrBracketNotFound)
		}

		var fw float64
		switch {
		case (w-xc)*(xb-w) > 0:
			// Parabolic minimum lies between xb and xc.
			if fw, err = eval(w); err != nil {
				return nil, err
			}
			if fw < fc {
				xa, xb = xb, w
				fa, fb = fb, fw
				return finishBracket(xa, xb, xc, fa, fb, fc, rounds)
			} else if fw > fb {
				xc, fc = w, fw
				return finishBracket(xa, xb, xc, fa, fb, fc, rounds)
			}
			w = xc + goldenRatio*(xc-xb)
			if fw, err = eval(w); err != nil {
				return nil, err
			}
		case (w-wlim)*(wlim-xc) >= 0:
			// Parabolic step beyond the growth limit.
			w = wlim
			if fw, err = eval(w); err != nil {
				return nil, err
			}
		case (w-wlim)*(xc-w) > 0:
			// Parabolic step between xc and the limit.
			if fw, err = eval(w); err != nil {
				return nil, err
			}
			if fw < fc {
				xb, xc = xc, w
				w = xc + goldenRatio*(xc-xb)
				fb, fc = fc, fw
				if fw, err = eval(w); err != nil {
					return nil, err
				}
			}
		default:
			w = xc + goldenRatio*(xc-xb)
			if fw, err = eval(w); err != nil {
				return nil, err
			}
		}

		xa, xb, xc = xb, xc, w
		fa, fb, fc = fb, fc, fw
	}

	return finishBracket(xa, xb, xc, fa, fb, fc, rounds)
}

// finishBracket validates the triple and orients it so that XA < XC.
func finishBracket(xa, xb, xc, fa, fb, fc float64, rounds int) (*BracketResult, error) {
	valueOK := (fb < fc && fb <= fa) || (fb < fa && fb <= fc)
	orderOK := (xa < xb && xb < xc) || (xc < xb && xb < xa)
	finite := !math.IsInf(xa, 0) && !math.IsInf(xb, 0) && !math.IsInf(xc, 0) &&
		!math.IsNaN(xa) && !math.IsNaN(xb) && !math.IsNaN(xc)
	if !valueOK || !orderOK || !finite {
		return nil, fmt.Errorf("%w: (%g, %g, %g) with values (%g, %g, %g)",
			errs.ErrBracketNotFound, xa, xb, xc, fa, fb, fc)
	}

	if xa > xc {
		xa, xc = xc, xa
		fa, fc = fc, fa
	}
	return &BracketResult{XA: xa, XB: xb, XC: xc, FA: fa, FB: fb, FC: fc, Rounds: rounds}, nil
}

// initialBracket turns a user supplied bracket into a validated triple.
//
//   - nil: search downhill from (0, 1)
//   - two points: search downhill from them
//   - three points: check xa < xb < xc (after swapping the ends if needed)
//     and f(xb) < f(xa), f(xb) < f(xc), spending one round
func initialBracket(f Objective, brack []float64) (*BracketResult, error) {
	switch len(brack) {
	case 0:
		return Bracket(f, 0, 1)
	case 2:
		return Bracket(f, brack[0], brack[1])
	case 3:
		xa, xb, xc := brack[0], brack[1], brack[2]
		if xa > xc {
			xa, xc = xc, xa
		}
		if !(xa < xb && xb < xc) {
			return nil, fmt.Errorf("%w: (%g, %g, %g) does not satisfy xa < xb < xc",
				errs.ErrInvalidBracket, xa, xb, xc)
		}
		fs, err := f([]float64{xa, xb, xc})
		if err != nil {
			return nil, err
		}
		if len(fs) != 3 {
			return nil, fmt.Errorf("objective returned %d values for 3 points", len(fs))
		}
		fa, fb, fc := fs[0], fs[1], fs[2]
		if !(fb < fa && fb < fc) {
			return nil, fmt.Errorf("%w: f(xb)=%g is not below f(xa)=%g and f(xc)=%g",
				errs.ErrInvalidBracket, fb, fa, fc)
		}
		return &BracketResult{XA: xa, XB: xb, XC: xc, FA: fa, FB: fb, FC: fc, Rounds: 1}, nil
	default:
		return nil, fmt.Errorf("%w: bracket must have 2 or 3 points, got %d",
			errs.ErrInvalidBracket, len(brack))
	}
}
