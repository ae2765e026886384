package logmath

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSumExp(t *testing.T) {
	t.Run("matches direct computation", func(t *testing.T) {
		got := LogSumExp(1, 2, 3)
		want := math.Log(math.Exp(1) + math.Exp(2) + math.Exp(3))
		assert.InDelta(t, want, real(got), 1e-12)
		assert.InDelta(t, 0, imag(got), 1e-12)
	})

	t.Run("does not overflow for large exponents", func(t *testing.T) {
		got := LogSumExp(1000, 1000)
		assert.InDelta(t, 1000+math.Ln2, real(got), 1e-9)
	})

	t.Run("negative sums carry pi", func(t *testing.T) {
		got := LogSumExp(complex(math.Log(2), math.Pi), 0)
		// -2 + 1 = -1
		assert.InDelta(t, 0, real(got), 1e-12)
		assert.InDelta(t, math.Pi, math.Abs(imag(got)), 1e-12)
	})

	t.Run("all -Inf gives -Inf", func(t *testing.T) {
		got := LogSumExp(NegInf, NegInf)
		assert.True(t, math.IsInf(real(got), -1))
	})

	t.Run("empty gives -Inf", func(t *testing.T) {
		assert.True(t, math.IsInf(real(LogSumExp()), -1))
	})

	t.Run("NaN propagates", func(t *testing.T) {
		got := LogSumExp(1, complex(math.NaN(), 0))
		assert.True(t, cmplx.IsNaN(got))
	})
}

func TestLogSub(t *testing.T) {
	got := LogSub(complex(math.Log(5), 0), complex(math.Log(3), 0))
	assert.InDelta(t, math.Log(2), real(got), 1e-12)

	got = LogSub(complex(math.Log(3), 0), complex(math.Log(5), 0))
	assert.InDelta(t, -2, real(cmplx.Exp(got)), 1e-12)

	// e^800 - e^799 without overflow
	got = LogSub(800, 799)
	assert.InDelta(t, 799+math.Log(math.E-1), real(got), 1e-9)
}

func TestScale(t *testing.T) {
	z := Scale(NegInf, 2)
	require.True(t, math.IsInf(real(z), -1))
	require.False(t, math.IsNaN(imag(z)))

	z = Scale(complex(1, math.Pi), 2)
	assert.Equal(t, complex(2, 2*math.Pi), z)
}

func TestLogSumExpReal(t *testing.T) {
	assert.InDelta(t, math.Log(6), LogSumExpReal([]float64{0, math.Log(2), math.Log(3)}), 1e-12)
	assert.True(t, math.IsInf(LogSumExpReal(nil), -1))
}

func TestLogVar(t *testing.T) {
	x := []float64{1, 2, 3, 4, 10}
	logx := make([]complex128, len(x))
	for i, v := range x {
		logx[i] = complex(math.Log(v), 0)
	}

	mean := 4.0
	m2 := 0.0
	for _, v := range x {
		m2 += (v - mean) * (v - mean)
	}

	assert.InDelta(t, math.Log(mean), real(LogMean(logx)), 1e-12)
	assert.InDelta(t, math.Log(m2), LogM2(logx, LogMean(logx)), 1e-12)
	assert.InDelta(t, math.Log(m2/5), LogVar(logx), 1e-12)

	sumsq := 0.0
	for _, v := range x {
		sumsq += v * v
	}
	assert.InDelta(t, math.Log(sumsq), LogSumSq(logx), 1e-12)
}

func TestLogVarMixedSigns(t *testing.T) {
	x := []float64{-3, -1, 0.5, 2, 7}
	logx := make([]complex128, len(x))
	for i, v := range x {
		logx[i] = cmplx.Log(complex(v, 0))
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	variance := 0.0
	for _, v := range x {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(x))

	assert.InDelta(t, math.Log(variance), LogVar(logx), 1e-12)
}
