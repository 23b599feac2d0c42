package chol_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/choldown/matrix"
)

// MustFromRows builds a column-major Dense from natural-order rows or fails the test.
func MustFromRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// RandomFactor returns a well-conditioned n×n upper factor: diagonal in [1, 2),
// strictly-upper entries in [-0.5, 0.5), zeros below.
func RandomFactor(t testing.TB, rng *rand.Rand, n int) *matrix.Dense {
	t.Helper()
	r, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i < j; i++ {
			require.NoError(t, r.Set(i, j, rng.Float64()-0.5))
		}
		require.NoError(t, r.Set(j, j, 1+rng.Float64()))
	}

	return r
}

// VectorWithRho returns x = Rᵗz for a random direction z with ‖z‖₂ = rho.
// The downdate solves Rᵗs = x, so s = z and ‖s‖₂ = rho up to rounding,
// which puts the stability check under the test's control.
func VectorWithRho(t testing.TB, rng *rand.Rand, r *matrix.Dense, rho float64) []float64 {
	t.Helper()
	n := r.Rows()
	z := make([]float64, n)
	var sq float64
	for i := range z {
		z[i] = rng.NormFloat64()
		sq += z[i] * z[i]
	}
	scale := rho / math.Sqrt(sq)
	for i := range z {
		z[i] *= scale
	}

	raw := r.RawData()
	x := make([]float64, n)
	var i, j int
	for j = 0; j < n; j++ { // x[j] = Σ_{i<=j} R(i,j)·z[i]
		for i = 0; i <= j; i++ {
			x[j] += raw[j*n+i] * z[i]
		}
	}

	return x
}

// UpperEqual compares the upper triangles of two n×n column-major factors.
func UpperEqual(t testing.TB, want, got *matrix.Dense, tol float64) {
	t.Helper()
	n := want.Rows()
	require.Equal(t, n, got.Rows())
	w, g := want.RawData(), got.RawData()
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i <= j; i++ {
			require.InDelta(t, w[j*n+i], g[j*n+i], tol, "R(%d,%d)", i, j)
		}
	}
}
