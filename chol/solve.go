package chol

import (
	"fmt"
	"math"
)

// SolveUpperT solves Rᵗs = x for s by forward substitution, where R is the n×n
// upper-triangular factor stored column-major in r (R(i,j) = r[j*n+i]).
//
// Column j of R above the diagonal is contiguous in r, so every step is a dot
// product of r[j*n : j*n+j] with the already-computed prefix s[:j]:
//
//	s[0] = x[0] / R(0,0)
//	s[j] = (x[j] − Σ_{k<j} R(k,j)·s[k]) / R(j,j)      j = 1..n−1
//
// Columns are processed in strictly increasing order; s[j] depends on every s[k], k < j.
//
// Errors:
//   - ErrZeroDiagonal (wrapped with the column index) before dividing by R(j,j) = 0.
//     s[:j] is then partially written; r and x are never written.
//
// Slices shorter than n·n (r) or n (x, s) panic; DowndateRaw validates them first.
// Complexity: O(n²) time, no allocation.
func SolveUpperT(n int, r, x, s []float64) error {
	var (
		j    int
		diag float64
		col  []float64
	)
	for j = 0; j < n; j++ {
		col = r[j*n : j*n+j+1] // R(0..j, j)
		diag = col[j]
		if diag == 0 {
			return fmt.Errorf("SolveUpperT: R(%d,%d): %w", j, j, ErrZeroDiagonal)
		}
		s[j] = (x[j] - Dot(col[:j], s)) / diag
	}

	return nil
}

// checkFactor validates R's upper triangle (and, under strict mode, its lower
// triangle) plus x before any work starts. It never writes.
func checkFactor(n int, r, x []float64, o *Options) error {
	var (
		i, j int
		v    float64
	)
	if o.CheckNaNInf {
		for i, v = range x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("x[%d]: %w", i, ErrNaNInf)
			}
		}
		for j = 0; j < n; j++ {
			for i = 0; i <= j; i++ {
				v = r[j*n+i]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("R(%d,%d): %w", i, j, ErrNaNInf)
				}
			}
		}
	}
	if o.StrictUpper {
		for j = 0; j < n; j++ {
			for i = j + 1; i < n; i++ {
				v = r[j*n+i]
				if !(math.Abs(v) <= o.StrictUpperTol) {
					return fmt.Errorf("R(%d,%d) = %g: %w", i, j, v, ErrNotUpperTriangular)
				}
			}
		}
	}

	return nil
}
