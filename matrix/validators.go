// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/symmetry/triangularity checks here.
//  - Return sentinel errors wrapped with the validator tag so call sites can match via errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Structural checks run O(n²) over one triangle only.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// A typed nil *Dense stored in the interface is also rejected.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures matrices a and b are non-nil with equal dimensions.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func ValidateSameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix) // reuse the "nil argument" sentinel
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects NaN/±Inf entries in x.
func ValidateFinite(x []float64) error {
	for i, v := range x {
		if isNonFinite(v) {
			return validatorErrorf(fmt.Sprintf("ValidateFinite[%d]", i), ErrNaNInf)
		}
	}

	return nil
}

// ValidateSymmetric checks |A[i,j] - A[j,i]| <= tol over the strict upper triangle.
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf (bad tol), ErrAsymmetry.
// Complexity: O(n²). Space: O(1).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	if isNonFinite(tol) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	tol = math.Abs(tol)

	n := m.Rows()
	var (
		i, j     int
		aij, aji float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ { // scan only upper triangle
			aij, _ = m.At(i, j)
			aji, _ = m.At(j, i)
			if math.Abs(aij-aji) > tol {
				return validatorErrorf(fmt.Sprintf("ValidateSymmetric(%d,%d)", i, j), ErrAsymmetry)
			}
		}
	}

	return nil
}

// ValidateUpperTriangular checks that every strictly-lower entry satisfies |A[i,j]| <= tol.
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf (bad tol), ErrNotUpperTriangular.
// Complexity: O(n²).
func ValidateUpperTriangular(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	if isNonFinite(tol) {
		return validatorErrorf("ValidateUpperTriangular", ErrNaNInf)
	}
	tol = math.Abs(tol)

	n := m.Rows()
	var (
		i, j int
		v    float64
	)
	for j = 0; j < n; j++ {
		for i = j + 1; i < n; i++ { // below the diagonal, column by column
			v, _ = m.At(i, j)
			if math.Abs(v) > tol {
				return validatorErrorf(fmt.Sprintf("ValidateUpperTriangular(%d,%d)", i, j), ErrNotUpperTriangular)
			}
		}
	}

	return nil
}

// ValidatePositiveDiagonal checks A[i,i] > 0 for every i.
// NaN diagonals fail the comparison and are reported as ErrNonPositiveDiagonal.
// Complexity: O(n).
func ValidatePositiveDiagonal(m Matrix) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	var (
		i int
		v float64
	)
	for i = 0; i < m.Rows(); i++ {
		v, _ = m.At(i, i)
		if !(v > 0) {
			return validatorErrorf(fmt.Sprintf("ValidatePositiveDiagonal(%d)", i), ErrNonPositiveDiagonal)
		}
	}

	return nil
}
