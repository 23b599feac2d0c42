// Package matrix provides column-major dense storage and the small set of
// dense kernels that surround triangular (Cholesky) factors.
//
// The matrix package provides:
//
//   - Dense: a column-major r×c float64 matrix. Element (i,j) lives at offset
//     j*r + i of the backing buffer. NewDenseFrom wraps a caller-owned buffer
//     without copying, which lets in-place kernels (see package chol) write
//     straight into caller memory while still offering bounds-checked At/Set.
//   - Validators: ValidateSquare, ValidateVecLen, ValidateSymmetric,
//     ValidateUpperTriangular, ValidatePositiveDiagonal, ValidateFinite.
//   - Kernels: Gram (AᵗA), Outer (xxᵗ), Sub, FrobeniusNorm, AllClose.
//   - Cholesky: the upper factor R of an SPD matrix, A = RᵗR.
//
// Errors are package-level sentinels (errors.go) wrapped with a context tag;
// match them with errors.Is. Nothing in this package panics on user input.
//
// Quick example:
//
//	a, _ := matrix.NewFromRows([][]float64{{4, 2}, {2, 2}})
//	r, err := matrix.Cholesky(a) // r = [[2, 1], [0, 1]]
//	if err != nil {
//		// ErrNotPositiveDefinite, ErrAsymmetry, ...
//	}
package matrix
