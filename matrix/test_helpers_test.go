// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for the dense kernels and Cholesky.
//   • Keep all data finite unless a test explicitly targets the numeric policy.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/choldown/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
// Use hide{X} to force the At-based (non-*Dense) paths in code under test.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c zero *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustFromRows builds a *Dense from natural-order rows or fails the test.
func MustFromRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads m(i,j) or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// CompareExact asserts m equals want (natural row order) element by element.
func CompareExact(t testing.TB, want [][]float64, m matrix.Matrix) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	var i, j int
	for i = 0; i < len(want); i++ {
		require.Equal(t, len(want[i]), m.Cols(), "cols")
		for j = 0; j < len(want[i]); j++ {
			require.Equal(t, want[i][j], MustAt(t, m, i, j), "(%d,%d)", i, j)
		}
	}
}

// CompareClose asserts AllClose(a, b, rtol, atol).
func CompareClose(t testing.TB, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, rtol, atol)
	require.NoError(t, err)
	require.True(t, ok, "matrices differ:\n%v\nvs\n%v", a, b)
}

// RandomSPD returns A = BᵗB + n·I for a random n×n B; strictly positive definite.
func RandomSPD(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	b := MustDense(t, n, n)
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i < n; i++ {
			require.NoError(t, b.Set(i, j, rng.Float64()*2-1))
		}
	}
	a, err := matrix.Gram(b)
	require.NoError(t, err)
	for i = 0; i < n; i++ {
		require.NoError(t, a.Set(i, i, MustAt(t, a, i, i)+float64(n)))
	}

	return a
}
