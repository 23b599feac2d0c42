// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (column-major) & safe accessors.
//
// Purpose:
//   - Provide a contiguous column-major buffer with the explicit index formula j*rows + i.
//     This is the storage order expected by LINPACK/LAPACK-style kernels (and by the
//     chol package), so a raw buffer can be handed over without reshuffling.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Enforce a numeric policy (optional rejection of NaN/Inf) from a single source of truth.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; NewDenseFrom: O(1) (wraps); At/Set: O(1); Clone: O(r*c).

package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt   = "At"  // method tag used in error wrappers
	ctxSet  = "Set" // method tag used in error wrappers
	ctxFrom = "NewDenseFrom"
	ctxRows = "NewFromRows"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Format: "Dense.<method>(row,col): %w"; the sentinel is preserved for errors.Is.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete column-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in column-major order (offset = j*r + i).
//   - validateNaNInf enables NaN/Inf rejection in Set (policy default from options.go).
//
// Storage-order invariant: consecutive elements of data walk DOWN a column before
// moving to the next column. RawData exposes this buffer as-is.
type Dense struct {
	r, c           int       // row and column counts (>0)
	data           []float64 // contiguous column-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf in Set when true
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using column-major storage.
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrBadShape.
//   - Stage 2: allocate a zero-filled buffer and apply the numeric policy.
//
// Errors:
//   - ErrBadShape (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}
	o := gatherOptions(opts...)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// NewDenseFrom wraps an existing column-major buffer WITHOUT copying.
// Mutations through Set (or through algorithms operating on RawData) are visible
// to the caller's slice, which is the point: in-place kernels write straight into
// caller-owned memory.
//
// Errors:
//   - ErrBadShape if rows<=0 or cols<=0.
//   - ErrDimensionMismatch if len(data) != rows*cols.
//   - ErrNaNInf if the policy is on and data holds a non-finite value.
//
// Complexity: O(1) without validation, O(r*c) with NaN/Inf validation.
func NewDenseFrom(rows, cols int, data []float64, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%s(%d,%d): %w", ctxFrom, rows, cols, ErrBadShape)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s(%d,%d): len(data)=%d: %w", ctxFrom, rows, cols, len(data), ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	if o.validateNaNInf {
		for k, v := range data {
			if isNonFinite(v) {
				return nil, denseErrorf(ctxFrom, k%rows, k/rows, ErrNaNInf)
			}
		}
	}

	return &Dense{r: rows, c: cols, data: data, validateNaNInf: o.validateNaNInf}, nil
}

// NewFromRows builds a Dense from row slices given in natural (human) order and
// stores them column-major. All rows must have the same positive length.
//
// Complexity: O(r*c).
func NewFromRows(rows [][]float64, opts ...Option) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", ctxRows, ErrBadShape)
	}
	r, c := len(rows), len(rows[0])
	m, err := NewDense(r, c, opts...)
	if err != nil {
		return nil, err
	}

	var i, j int
	for i = 0; i < r; i++ {
		if len(rows[i]) != c {
			return nil, fmt.Errorf("%s: row %d has %d entries, want %d: %w", ctxRows, i, len(rows[i]), c, ErrDimensionMismatch)
		}
		for j = 0; j < c; j++ {
			if err = m.Set(i, j, rows[i][j]); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// RawData returns the backing column-major buffer (no copy).
func (m *Dense) RawData() []float64 { return m.data }

// indexOf computes the column-major offset for (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Column-major offset: j*r + i.
	return col*m.r + row, nil
}

// At retrieves the element at (row, col).
// Errors: ErrOutOfRange (wrapped with coordinates).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set assigns v at (row, col).
// Errors: ErrOutOfRange, or ErrNaNInf when the numeric policy rejects v.
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && isNonFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy; the numeric policy is preserved.
func (m *Dense) Clone() Matrix {
	return m.Copy()
}

// Copy is Clone with a concrete return type.
func (m *Dense) Copy() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp, validateNaNInf: m.validateNaNInf}
}

// ToRows returns the contents as row slices in natural order.
func (m *Dense) ToRows() [][]float64 {
	out := make([][]float64, m.r)
	var i, j int
	for i = 0; i < m.r; i++ {
		out[i] = make([]float64, m.c)
		for j = 0; j < m.c; j++ {
			out[i][j] = m.data[j*m.r+i]
		}
	}

	return out
}

// String renders the matrix row by row, e.g. "[2, 1]\n[0, 1]\n".
func (m *Dense) String() string {
	var b strings.Builder
	var i, j int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[j*m.r+i])) // column-major read
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}
