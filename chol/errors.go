package chol

import "errors"

// Precondition violations. These are programming errors on the caller side:
// they are reported before the factor is touched and are never worth retrying.
var (
	// ErrBadDimension indicates n < 1.
	ErrBadDimension = errors.New("chol: dimension must be >= 1")

	// ErrDimensionMismatch indicates len(x) != n, len(R) != n·n, or a non-square factor.
	ErrDimensionMismatch = errors.New("chol: dimension mismatch")

	// ErrZeroDiagonal indicates a zero diagonal entry R(j,j) met during the triangular solve.
	ErrZeroDiagonal = errors.New("chol: zero diagonal entry in triangular factor")

	// ErrNaNInf indicates a non-finite entry in R's upper triangle or in x.
	ErrNaNInf = errors.New("chol: NaN or Inf encountered")

	// ErrNilFactor indicates a nil factor matrix.
	ErrNilFactor = errors.New("chol: nil factor")

	// ErrNotUpperTriangular is reported under WithStrictUpper when a strictly-lower
	// entry exceeds the tolerance.
	ErrNotUpperTriangular = errors.New("chol: factor is not upper triangular")
)

// ErrNotPositiveDefinite is the error form of the NotPositiveDefinite status.
// Downdate itself reports that outcome through Status with a nil error;
// Status.Err converts it for callers that prefer error flow.
var ErrNotPositiveDefinite = errors.New("chol: downdated matrix is not positive definite")
