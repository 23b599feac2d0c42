// Package choldown maintains Cholesky factors under rank-1 downdates:
// given the upper factor R of A = RᵗR and a vector x, it produces the upper
// factor of A − xxᵗ in O(n²), without refactoring, or reports that
// A − xxᵗ is no longer positive definite.
//
// 🚀 What is inside?
//
//   - chol/: the downdate kernel (triangular solve, scaled norm, Givens
//     rotations), Status codes, options and gonum interop.
//   - matrix/: column-major Dense storage, validators, Gram/Sub/Frobenius
//     helpers and a plain Cholesky factorization.
//   - cmd/: the choldown CLI (downdate, factor, norm) over YAML problem files.
//   - examples/: sliding-window least squares kept current by update + downdate.
//
// ✨ Guarantees
//
//   - Column-major layout: R(i,j) lives at offset j·n + i, as in LINPACK.
//   - Only the upper triangle of R is read or written.
//   - On rejection and on every precondition error R is left untouched.
//   - Calls are reentrant; scratch is per call.
//
// Quick example:
//
//	r, _ := matrix.NewFromRows([][]float64{{2, 1}, {0, 1}})
//	status, err := chol.Downdate(r, []float64{1, 0})
//	// status == chol.Success, r now factors [[3,2],[2,2]]
//
//	go get github.com/katalvlaran/choldown
package choldown
