package federated

import (
	"fmt"
	"math"

	"github.com/sartorproj/fedpower/errs"
	"github.com/sartorproj/fedpower/logmath"
	"github.com/sartorproj/fedpower/power"
)

// Client holds one party's partition. The data never leaves the client;
// only the log-domain summaries of ComputeStatistics do.
type Client struct {
	family power.Family
	x      []float64
	n      int
	nPos   int
	nNeg   int
	c      float64
}

// NewClient validates and copies x. NaN values are dropped. Box-Cox clients
// reject any value ≤ 0 with errs.ErrDomain.
func NewClient(f power.Family, x []float64) (*Client, error) {
	x, err := power.Prepare(f, x)
	if err != nil {
		return nil, fmt.Errorf("new %s client: %w", f, err)
	}

	c := &Client{
		family: f,
		x:      x,
		n:      len(x),
		c:      power.Constant(f, x),
	}
	for _, v := range x {
		if v >= 0 {
			c.nPos++
		} else {
			c.nNeg++
		}
	}
	return c, nil
}

// Family returns the transform family.
func (c *Client) Family() power.Family { return c.family }

// N returns the number of retained values.
func (c *Client) N() int { return c.n }

// NPos returns the number of values ≥ 0.
func (c *Client) NPos() int { return c.nPos }

// NNeg returns the number of values < 0.
func (c *Client) NNeg() int { return c.nNeg }

// Constant returns the λ-independent likelihood term of the partition.
func (c *Client) Constant() float64 { return c.c }

// mixed reports whether a Yeo-Johnson partition holds both signs.
func (c *Client) mixed() bool {
	return c.family == power.YeoJohnson && c.nPos > 0 && c.nNeg > 0
}

// Statistics is a client's reply for a batch of lambdas.
//
// First and Second run parallel to Lambdas:
//
//	Naive:    First = log Σψ,    Second = log Σψ²
//	Pairwise: First = log mean,  Second = log Σ(ψ - mean)²
//
// For Box-Cox and single-sign Yeo-Johnson partitions ψ is the un-shifted
// power term (x^λ, (1+x)^λ or (1-x)^(2-λ)) except at a singular λ, where it
// is the transform itself. The server applies the shift and scale.
// Mixed-sign partitions always send the full transform.
type Statistics struct {
	Family  power.Family
	Mode    VarianceMode
	C       float64
	N       int
	NPos    int
	NNeg    int
	Lambdas []float64
	First   []complex128
	Second  []float64
}

// ComputeStatistics evaluates the client's summaries for every lambda.
func (c *Client) ComputeStatistics(lmbs []float64, mode VarianceMode) (*Statistics, error) {
	if len(lmbs) == 0 {
		return nil, errs.ErrShape
	}
	if mode != Pairwise && mode != Naive {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnknownVarianceMode, mode)
	}

	st := &Statistics{
		Family:  c.family,
		Mode:    mode,
		C:       c.c,
		N:       c.n,
		NPos:    c.nPos,
		NNeg:    c.nNeg,
		Lambdas: append([]float64(nil), lmbs...),
		First:   make([]complex128, len(lmbs)),
		Second:  make([]float64, len(lmbs)),
	}

	for i, lmb := range lmbs {
		if c.n == 0 {
			st.First[i], st.Second[i] = logmath.NegInf, math.Inf(-1)
			continue
		}

		logpsi := c.logPsi(lmb)
		switch mode {
		case Naive:
			st.First[i] = logmath.LogSumExp(logpsi...)
			st.Second[i] = logmath.LogSumSq(logpsi)
		case Pairwise:
			st.First[i] = logmath.LogMean(logpsi)
			st.Second[i] = logmath.LogM2(logpsi, st.First[i])
		}
	}
	return st, nil
}

func (c *Client) logPsi(lmb float64) []complex128 {
	out := make([]complex128, c.n)
	if c.mixed() {
		for i, v := range c.x {
			out[i] = power.LogTransform(c.family, lmb, v)
		}
		return out
	}
	for i, v := range c.x {
		out[i] = power.LogPower(c.family, lmb, v)
	}
	return out
}
