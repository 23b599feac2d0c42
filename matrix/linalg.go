// SPDX-License-Identifier: MIT

// Package matrix - small dense kernels used around triangular factors.
//
// Purpose:
//   - Gram (AᵗA), Outer (xxᵗ), Sub, FrobeniusNorm, AllClose.
//   - Fast paths operate on *Dense backing slices; column-major layout makes
//     AᵗA a sequence of column-by-column dot products over contiguous memory.
//
// Determinism:
//   - Fixed loop orders everywhere; results are bitwise reproducible.
package matrix

import (
	"fmt"
	"math"
)

const (
	opGram    = "Gram"
	opOuter   = "Outer"
	opSub     = "Sub"
	opFrob    = "FrobeniusNorm"
	opAllCl   = "AllClose"
	opAsDense = "asDense"
)

// matrixErrorf wraps err with an operation tag; the sentinel survives for errors.Is.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// asDense returns m as *Dense, copying through At when m is another implementation.
func asDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := NewDense(m.Rows(), m.Cols(), WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opAsDense, err)
	}
	var (
		i, j int
		v    float64
	)
	for j = 0; j < m.Cols(); j++ {
		for i = 0; i < m.Rows(); i++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opAsDense, err)
			}
			out.data[j*out.r+i] = v
		}
	}

	return out, nil
}

// Gram computes G = AᵗA for an r×c matrix A, returning a fresh c×c Dense.
// For an upper-triangular Cholesky factor R this reconstructs the factored
// matrix RᵗR.
// Implementation:
//   - Stage 1: validate non-nil; obtain a *Dense view (copy only for foreign types).
//   - Stage 2: G[i,j] = <col_i, col_j>, computed for j>=i and mirrored.
//
// Complexity:
//   - Time O(r*c²), Space O(c²).
func Gram(a Matrix) (*Dense, error) {
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	g, err := NewDense(da.c, da.c, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	var (
		i, j, k    int
		ci, cj     []float64 // column slices (contiguous in column-major storage)
		sum        float64
		rows, cols = da.r, da.c
	)
	for j = 0; j < cols; j++ {
		cj = da.data[j*rows : (j+1)*rows]
		for i = 0; i <= j; i++ {
			ci = da.data[i*rows : (i+1)*rows]
			sum = 0
			for k = 0; k < rows; k++ {
				sum += ci[k] * cj[k]
			}
			g.data[j*cols+i] = sum
			g.data[i*cols+j] = sum // symmetric mirror
		}
	}

	return g, nil
}

// Outer returns the n×n rank-1 matrix xxᵗ.
// Errors: ErrBadShape for empty x.
// Complexity: O(n²).
func Outer(x []float64) (*Dense, error) {
	n := len(x)
	o, err := NewDense(n, n, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opOuter, err)
	}
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i < n; i++ {
			o.data[j*n+i] = x[i] * x[j]
		}
	}

	return o, nil
}

// Sub computes C = A − B element-wise into a fresh Dense.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Sub(a, b Matrix) (*Dense, error) {
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	if err = ValidateSameShape(da, db); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res, err := NewDense(da.r, da.c, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	for idx := range res.data { // same layout on both sides, flat walk is fine
		res.data[idx] = da.data[idx] - db.data[idx]
	}

	return res, nil
}

// FrobeniusNorm returns sqrt(Σ a_ij²) using the scaled sum-of-squares update so
// that very large or very small entries neither overflow nor underflow.
// Complexity: O(r*c).
func FrobeniusNorm(a Matrix) (float64, error) {
	da, err := asDense(a)
	if err != nil {
		return 0, matrixErrorf(opFrob, err)
	}

	scale, ssq := 0.0, 1.0
	var absv float64
	for _, v := range da.data {
		if v == 0 {
			continue
		}
		absv = math.Abs(v)
		if math.IsNaN(absv) {
			return math.NaN(), nil
		}
		if scale < absv {
			ssq = 1 + ssq*(scale/absv)*(scale/absv)
			scale = absv
		} else {
			ssq += (absv / scale) * (absv / scale)
		}
	}
	if math.IsInf(scale, 1) {
		return math.Inf(1), nil
	}

	return scale * math.Sqrt(ssq), nil
}

// AllClose reports whether |a_ij − b_ij| <= atol + rtol*|b_ij| for every entry.
// Errors: ErrNaNInf (bad tolerance), ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c); early exit on the first violation.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if isNonFinite(rtol) || isNonFinite(atol) {
		return false, matrixErrorf(opAllCl, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf(opAllCl, err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf(opAllCl, err)
	}
	if err = ValidateSameShape(da, db); err != nil {
		return false, matrixErrorf(opAllCl, err)
	}

	for idx := range da.data {
		if !(math.Abs(da.data[idx]-db.data[idx]) <= atol+rtol*math.Abs(db.data[idx])) { // NaN never compares close
			return false, nil
		}
	}

	return true, nil
}
