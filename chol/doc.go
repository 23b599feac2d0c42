// Package chol implements the rank-1 downdate of an upper-triangular Cholesky
// factor.
//
// 🚀 What is a downdate?
//
//	Given A = RᵗR (R upper triangular, positive diagonal) and a vector x,
//	the downdate computes R' with R'ᵗR' = A − xxᵗ WITHOUT refactoring A.
//	It is the classic way to remove an observation from a least-squares
//	system or a sample from a covariance factor in O(n²) instead of O(n³).
//
// ✨ Pipeline (LINPACK DCHDD, without the (z, y, ρ) companion output):
//
//  1. SolveUpperT: forward substitution Rᵗs = x (uses Dot).
//  2. Nrm2: ρ = ‖s‖₂ via the scaled sum-of-squares (no overflow/underflow).
//  3. Stability check: ρ ≥ 1 ⇒ A − xxᵗ is not positive definite; R untouched.
//  4. BuildRotations: α = √(1−ρ²), then n rotation pairs (c[i], s[i]) for
//     i = n−1 … 0.
//  5. ApplyRotations: rotate every column of R in place, bottom-up.
//
// ⚙️ Usage:
//
//	r, _ := matrix.NewFromRows([][]float64{{2, 1}, {0, 1}})
//	status, err := chol.Downdate(r, []float64{1, 0})
//	switch {
//	case err != nil:
//	  // precondition violation: ErrBadDimension, ErrDimensionMismatch, ErrZeroDiagonal, ...
//	case status == chol.NotPositiveDefinite:
//	  // legitimate outcome: the downdated matrix would be indefinite
//	default:
//	  // r now holds R'
//	}
//
// Storage: factors are column-major, element (i,j) at offset j·n + i, exactly
// the layout of matrix.Dense.RawData. DowndateRaw accepts such a buffer directly.
//
// Performance:
//
//   - Time:   O(n²)
//   - Memory: O(n) scratch per call (pooled), R is rewritten in place.
//
// Calls are reentrant: every call owns its scratch, so independent factors can
// be downdated from many goroutines at once.
package chol
