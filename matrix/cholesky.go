// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

const opCholesky = "Cholesky"

// Cholesky computes the upper-triangular factor R of a symmetric positive-definite
// matrix A such that A = RᵗR. R is returned column-major with a strictly positive
// diagonal and exact zeros below the diagonal.
//
// Implementation (column-oriented, no pivoting):
//   - Stage 1: validate square, finite (under the numeric policy) and symmetric within eps.
//   - Stage 2: for each column j:
//     R[i,j] = (A[i,j] − Σ_{k<i} R[k,i]·R[k,j]) / R[i,i]   for i < j,
//     R[j,j] = sqrt(A[j,j] − Σ_{k<j} R[k,j]²).
//   - Stage 3: a non-positive (or NaN) pivot under the square root ⇒ ErrNotPositiveDefinite.
//
// Inputs:
//   - a: n×n symmetric matrix; only the upper triangle is read after the symmetry check.
//   - opts: WithEpsilon (symmetry tolerance), WithNoValidateNaNInf.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrAsymmetry, ErrNotPositiveDefinite.
//
// Complexity:
//   - Time O(n³/3), Space O(n²) for R.
func Cholesky(a Matrix, opts ...Option) (*Dense, error) {
	// Stage 1: Validate input
	if err := ValidateSquare(a); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	o := gatherOptions(opts...)
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	if o.validateNaNInf {
		if err = ValidateFinite(da.data); err != nil {
			return nil, matrixErrorf(opCholesky, err)
		}
	}
	if err = ValidateSymmetric(da, o.eps); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}

	// Stage 2: Prepare R
	n := da.r
	r, err := NewDense(n, n, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}

	// Stage 3: Execute factorization
	var (
		i, j, k int
		sum     float64
		pivot   float64
		colI    []float64 // R(:, i), contiguous
		colJ    []float64 // R(:, j), contiguous
	)
	for j = 0; j < n; j++ {
		colJ = r.data[j*n : (j+1)*n]
		for i = 0; i < j; i++ {
			colI = r.data[i*n : (i+1)*n]
			sum = da.data[j*n+i] // A[i,j]
			for k = 0; k < i; k++ {
				sum -= colI[k] * colJ[k]
			}
			colJ[i] = sum / colI[i]
		}
		pivot = da.data[j*n+j] // A[j,j]
		for k = 0; k < j; k++ {
			pivot -= colJ[k] * colJ[k]
		}
		if !(pivot > 0) {
			return nil, matrixErrorf(opCholesky, fmt.Errorf("pivot %d = %g: %w", j, pivot, ErrNotPositiveDefinite))
		}
		colJ[j] = math.Sqrt(pivot)
	}

	// Stage 4: Finalize
	r.validateNaNInf = o.validateNaNInf

	return r, nil
}
