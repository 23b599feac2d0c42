package chol

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/choldown/matrix"
)

// ToTriDense copies the upper triangle of the column-major factor r into a
// gonum upper TriDense (gonum stores row-major; the copy reorders).
// Errors: ErrNilFactor, ErrDimensionMismatch (non-square).
func ToTriDense(r *matrix.Dense) (*mat.TriDense, error) {
	if r == nil {
		return nil, fmt.Errorf("ToTriDense: %w", ErrNilFactor)
	}
	n := r.Rows()
	if n != r.Cols() {
		return nil, fmt.Errorf("ToTriDense: %dx%d: %w", n, r.Cols(), ErrDimensionMismatch)
	}

	t := mat.NewTriDense(n, mat.Upper, nil)
	raw := r.RawData()
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i <= j; i++ {
			t.SetTri(i, j, raw[j*n+i])
		}
	}

	return t, nil
}

// FromTriangular copies an upper gonum Triangular (for example the U factor of a
// mat.Cholesky) into a column-major matrix.Dense with zeros below the diagonal.
// Errors: ErrNotUpperTriangular for a lower triangle.
func FromTriangular(t mat.Triangular) (*matrix.Dense, error) {
	n, kind := t.Triangle()
	if kind != mat.Upper {
		return nil, fmt.Errorf("FromTriangular: %w", ErrNotUpperTriangular)
	}
	out, err := matrix.NewDense(n, n, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("FromTriangular: %w", err)
	}

	raw := out.RawData()
	var i, j int
	for j = 0; j < n; j++ {
		for i = 0; i <= j; i++ {
			raw[j*n+i] = t.At(i, j)
		}
	}

	return out, nil
}

// Residual reports how closely updatedᵗ·updated reproduces origᵗ·orig − xxᵗ,
// as a relative Frobenius error:
//
//	‖updatedᵗ·updated − (origᵗ·orig − xxᵗ)‖_F / ‖origᵗ·orig − xxᵗ‖_F
//
// The absolute error is returned when the reference matrix is exactly zero.
// Only the upper triangles of both factors are read.
func Residual(orig, updated *matrix.Dense, x []float64) (float64, error) {
	ro, err := ToTriDense(orig)
	if err != nil {
		return 0, fmt.Errorf("Residual: %w", err)
	}
	ru, err := ToTriDense(updated)
	if err != nil {
		return 0, fmt.Errorf("Residual: %w", err)
	}
	n, _ := ro.Dims()
	if m, _ := ru.Dims(); m != n || len(x) != n {
		return 0, fmt.Errorf("Residual: %w", ErrDimensionMismatch)
	}

	var want, outer, got, diff mat.Dense
	xv := mat.NewVecDense(n, append([]float64(nil), x...))
	want.Mul(ro.T(), ro)
	outer.Outer(1, xv, xv)
	want.Sub(&want, &outer)
	got.Mul(ru.T(), ru)
	diff.Sub(&got, &want)

	den := mat.Norm(&want, 2) // Frobenius for a general matrix
	if den == 0 {
		return mat.Norm(&diff, 2), nil
	}

	return mat.Norm(&diff, 2) / den, nil
}
