package power

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/optimize"
)

var (
	skewed   = []float64{0.5, 1.2, 2.3, 3.1, 4.8, 7.5, 9.9, 15.2, 0.8, 2.2}
	negative = []float64{-0.3, -1.4, -2.2, -0.9, -5.6, -3.3, -0.1}
	mixed    = []float64{-3.2, -1.1, -0.4, 0, 0.2, 0.9, 1.7, 2.5, 4.4, 8.1}

	lambdas = []float64{-2, -1, -0.5, 0, 0.5, 1, 1.5, 2, 3}
)

func tol(want float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(want))
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in   string
		want Family
	}{
		{"boxcox", BoxCox},
		{"Box-Cox", BoxCox},
		{"bc", BoxCox},
		{"yeojohnson", YeoJohnson},
		{"yeo_johnson", YeoJohnson},
		{" YJ ", YeoJohnson},
	}
	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFamily("logit")
	assert.ErrorIs(t, err, errs.ErrUnknownFamily)
}

func TestTransformIdentityAtOne(t *testing.T) {
	for _, x := range []float64{0.01, 0.5, 1, 2, 10, 1e6} {
		assert.InDelta(t, x-1, Transform(BoxCox, 1, x), tol(x), "x=%g", x)
	}
	for _, x := range []float64{-1e3, -2.5, -1, 0, 0.3, 1, 7, 1e3} {
		assert.InDelta(t, x, Transform(YeoJohnson, 1, x), tol(x), "x=%g", x)
	}
}

func TestTransformSingularPoints(t *testing.T) {
	assert.InDelta(t, math.Log(5), Transform(BoxCox, 0, 5), 1e-15)
	assert.InDelta(t, math.Log(6), Transform(YeoJohnson, 0, 5), 1e-15)
	assert.InDelta(t, -math.Log(6), Transform(YeoJohnson, 2, -5), 1e-15)

	// Just off the singular point the regular branch is continuous with it.
	assert.InDelta(t, Transform(BoxCox, 0, 5), Transform(BoxCox, 1e-9, 5), 1e-8)
	assert.InDelta(t, Transform(YeoJohnson, 2, -5), Transform(YeoJohnson, 2-1e-9, -5), 1e-8)
}

func TestLogTransformMatchesTransform(t *testing.T) {
	check := func(f Family, x []float64) {
		for _, lmb := range lambdas {
			for _, v := range x {
				want := Transform(f, lmb, v)
				got := cmplx.Exp(LogTransform(f, lmb, v))
				assert.InDelta(t, want, real(got), tol(want), "%s λ=%g x=%g", f, lmb, v)
				assert.InDelta(t, 0, imag(got), tol(want), "%s λ=%g x=%g", f, lmb, v)
			}
		}
	}
	check(BoxCox, skewed)
	check(YeoJohnson, mixed)
	check(YeoJohnson, negative)
}

func TestLogPower(t *testing.T) {
	assert.Equal(t, complex(2*math.Log(3), 0), LogPower(BoxCox, 2, 3))
	assert.Equal(t, complex(0.5*math.Log1p(3), 0), LogPower(YeoJohnson, 0.5, 3))
	assert.Equal(t, complex(1.5*math.Log1p(3), 0), LogPower(YeoJohnson, 0.5, -3))

	// Limiting forms: log(log x), which carries iπ when log x < 0.
	z := LogPower(BoxCox, 0, 0.5)
	assert.InDelta(t, math.Log(math.Ln2), real(z), 1e-15)
	assert.InDelta(t, math.Pi, imag(z), 1e-15)
}

func TestConstant(t *testing.T) {
	x := []float64{1, 2, 4}
	assert.InDelta(t, math.Log(8), Constant(BoxCox, x), 1e-15)

	y := []float64{-1, 0, 3}
	assert.InDelta(t, math.Log(4)-math.Log(2), Constant(YeoJohnson, y), 1e-15)
}

func TestPrepare(t *testing.T) {
	got, err := Prepare(BoxCox, []float64{1, math.NaN(), 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)

	for _, bad := range [][]float64{{1, 0, 2}, {3, -1}} {
		_, err := Prepare(BoxCox, bad)
		assert.ErrorIs(t, err, errs.ErrDomain)
	}

	got, err = Prepare(YeoJohnson, []float64{-1, 0, math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0}, got)
}

func TestLogLikelihoodModesAgree(t *testing.T) {
	cases := []struct {
		name string
		f    Family
		x    []float64
	}{
		{"boxcox", BoxCox, skewed},
		{"yeojohnson positive", YeoJohnson, skewed},
		{"yeojohnson negative", YeoJohnson, negative},
		{"yeojohnson mixed", YeoJohnson, mixed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logLL, err := LogLikelihoods(tc.f, lambdas, tc.x, LogDomain)
			require.NoError(t, err)
			linLL, err := LogLikelihoods(tc.f, lambdas, tc.x, Linear)
			require.NoError(t, err)

			for i, lmb := range lambdas {
				assert.InDelta(t, linLL[i], logLL[i], 1e-8*math.Max(1, math.Abs(linLL[i])), "λ=%g", lmb)
			}
		})
	}
}

func TestLogLikelihoodDropsNaN(t *testing.T) {
	withNaN := append([]float64{math.NaN()}, skewed...)
	a, err := LogLikelihood(BoxCox, 0.3, withNaN, LogDomain)
	require.NoError(t, err)
	b, err := LogLikelihood(BoxCox, 0.3, skewed, LogDomain)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestLogLikelihoodErrors(t *testing.T) {
	_, err := LogLikelihood(BoxCox, 1, []float64{1, 0, 2}, LogDomain)
	assert.ErrorIs(t, err, errs.ErrDomain)

	_, err = LogLikelihoods(BoxCox, nil, skewed, LogDomain)
	assert.ErrorIs(t, err, errs.ErrShape)

	_, err = LogLikelihood(YeoJohnson, 1, []float64{math.NaN()}, LogDomain)
	assert.ErrorIs(t, err, errs.ErrEmptySample)
}

func TestLogLikelihoodOverflow(t *testing.T) {
	large := []float64{10, 10, 10, 9.9}
	small := []float64{0.1, 0.1, 0.1, 0.101}

	for _, lmb := range []float64{300, 358, 400} {
		ll, err := LogLikelihood(BoxCox, lmb, large, LogDomain)
		require.NoError(t, err)
		assert.False(t, math.IsInf(ll, 0) || math.IsNaN(ll), "λ=%g gave %g", lmb, ll)

		ll, err = LogLikelihood(BoxCox, -lmb, small, LogDomain)
		require.NoError(t, err)
		assert.False(t, math.IsInf(ll, 0) || math.IsNaN(ll), "λ=%g gave %g", -lmb, ll)
	}

	ll, err := LogLikelihood(BoxCox, 358, large, Linear)
	require.NoError(t, err)
	assert.True(t, math.IsInf(ll, 0) || math.IsNaN(ll), "linear mode should overflow, got %g", ll)
}

func TestMLE(t *testing.T) {
	t.Run("overflowing sample", func(t *testing.T) {
		res, err := MLE(BoxCox, []float64{10, 10, 10, 9.9}, LogDomain, nil)
		require.NoError(t, err)
		assert.Greater(t, res.X, 300.0)
		assert.Less(t, res.X, 420.0)
		assert.False(t, math.IsNaN(res.F))

		res, err = MLE(BoxCox, []float64{0.1, 0.1, 0.1, 0.101}, LogDomain, nil)
		require.NoError(t, err)
		assert.Less(t, res.X, -300.0)
		assert.Greater(t, res.X, -420.0)
	})

	t.Run("is a maximum", func(t *testing.T) {
		for _, f := range []Family{BoxCox, YeoJohnson} {
			res, err := MLE(f, skewed, LogDomain, nil)
			require.NoError(t, err)

			best, err := LogLikelihood(f, res.X, skewed, LogDomain)
			require.NoError(t, err)
			assert.InDelta(t, -best, res.F, 1e-12)

			for _, d := range []float64{-0.01, 0.01} {
				ll, err := LogLikelihood(f, res.X+d, skewed, LogDomain)
				require.NoError(t, err)
				assert.Less(t, ll, best, "%s λ=%g", f, res.X+d)
			}
		}
	})

	t.Run("domain", func(t *testing.T) {
		_, err := MLE(BoxCox, mixed, LogDomain, nil)
		assert.ErrorIs(t, err, errs.ErrDomain)
	})
}

func TestNLLDerivative(t *testing.T) {
	nll := func(f Family, lmb float64, x []float64) float64 {
		ll, err := LogLikelihood(f, lmb, x, LogDomain)
		require.NoError(t, err)
		return -ll
	}

	cases := []struct {
		f Family
		x []float64
	}{
		{BoxCox, skewed},
		{YeoJohnson, mixed},
		{YeoJohnson, negative},
	}
	for _, tc := range cases {
		for _, lmb := range []float64{-1.3, -0.4, 0.3, 0.9, 1.7, 2.6} {
			got, err := NLLDerivative(tc.f, lmb, tc.x, TrueDerivative)
			require.NoError(t, err)

			h := 1e-5
			want := (nll(tc.f, lmb+h, tc.x) - nll(tc.f, lmb-h, tc.x)) / (2 * h)
			assert.InDelta(t, want, got, 1e-5*math.Max(1, math.Abs(want)), "%s λ=%g", tc.f, lmb)

			secure, err := NLLDerivative(tc.f, lmb, tc.x, SecureDerivative)
			require.NoError(t, err)
			assert.Equal(t, math.Signbit(got), math.Signbit(secure), "%s λ=%g", tc.f, lmb)
		}
	}
}

func TestExpSearch(t *testing.T) {
	for _, f := range []Family{BoxCox, YeoJohnson} {
		mle, err := MLE(f, skewed, LogDomain, nil)
		require.NoError(t, err)

		for _, formula := range []DerivativeFormula{TrueDerivative, SecureDerivative} {
			res, err := ExpSearch(f, skewed, formula, optimize.DefaultSettings())
			require.NoError(t, err)
			assert.Equal(t, optimize.StopConverged, res.Reason, "%s %s", f, formula)
			assert.InDelta(t, mle.X, res.Lambda, 1e-5, "%s %s", f, formula)
		}
	}
}

func TestExpSearchStopsOnOverflow(t *testing.T) {
	res, err := ExpSearch(BoxCox, []float64{10, 10, 10, 9.9}, TrueDerivative, optimize.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, optimize.StopNaN, res.Reason)
	assert.Greater(t, res.Lambda, 100.0)
}

func TestExpSearchDomain(t *testing.T) {
	_, err := ExpSearch(BoxCox, []float64{1, -2}, TrueDerivative, optimize.DefaultSettings())
	assert.ErrorIs(t, err, errs.ErrDomain)
}
