// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All routines return these sentinels (optionally wrapped with a
// context tag) and tests match them via errors.Is. No routine panics on
// user-triggered error conditions.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Call sites wrap with fmt.Errorf("ctx: %w", ErrX);
// callers still match with errors.Is.
//
// ERROR PRIORITY (enforced in tests):
// nil -> shape/index -> NaN/Inf -> dimension mismatch -> structural violations.

var (
	// ErrBadShape is returned when a requested shape is invalid (rows<=0 or cols<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// or a backing buffer / vector whose length does not match the shape.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the configured epsilon.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNotUpperTriangular signals a strictly-lower entry larger than eps.
	ErrNotUpperTriangular = errors.New("matrix: matrix is not upper triangular within eps")

	// ErrNonPositiveDiagonal signals a diagonal entry <= 0 where a Cholesky
	// factor (strictly positive diagonal) was required.
	ErrNonPositiveDiagonal = errors.New("matrix: diagonal entry is not strictly positive")

	// ErrNotPositiveDefinite is returned by Cholesky when a pivot is not positive.
	ErrNotPositiveDefinite = errors.New("matrix: matrix is not positive definite")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")
)
