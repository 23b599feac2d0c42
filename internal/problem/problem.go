// Package problem reads downdate problems from YAML (or JSON) files and writes
// results back in the same format.
//
// A problem carries either an upper factor r or a symmetric positive-definite
// matrix a (factored with matrix.Cholesky on load), both given row by row, plus
// the vector x whose outer product is removed:
//
//	r:
//	  - [2, 1]
//	  - [0, 1]
//	x: [1, 0]
package problem

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/choldown/matrix"
)

var (
	// ErrMissingMatrix means neither r nor a was given.
	ErrMissingMatrix = errors.New("problem: one of r or a is required")

	// ErrAmbiguousMatrix means both r and a were given.
	ErrAmbiguousMatrix = errors.New("problem: r and a are mutually exclusive")

	// ErrNotSquare means the matrix rows do not form an n×n square.
	ErrNotSquare = errors.New("problem: matrix is not square")

	// ErrVectorLength means len(x) differs from the matrix order.
	ErrVectorLength = errors.New("problem: len(x) does not match the matrix order")
)

// Problem is the on-disk description of one downdate.
type Problem struct {
	R [][]float64 `json:"r,omitempty" yaml:"r,omitempty"`
	A [][]float64 `json:"a,omitempty" yaml:"a,omitempty"`
	X []float64   `json:"x" yaml:"x"`
}

// Load decodes and validates a problem. Unknown keys are rejected.
func Load(r io.Reader) (*Problem, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Problem
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode problem: empty document: %w", ErrMissingMatrix)
		}
		return nil, fmt.Errorf("decode problem: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open problem file: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Validate checks the structural rules:
//   - exactly one of R and A is set,
//   - the chosen matrix is n×n with n ≥ 1,
//   - len(X) == n.
//
// Numeric checks (finiteness, zero diagonal, positive definiteness) are left to
// matrix.Cholesky and chol.Downdate.
func (p *Problem) Validate() error {
	rows := p.rows()
	switch {
	case p.R == nil && p.A == nil:
		return ErrMissingMatrix
	case p.R != nil && p.A != nil:
		return ErrAmbiguousMatrix
	}

	n := len(rows)
	if n == 0 {
		return fmt.Errorf("%s has no rows: %w", p.matrixKey(), ErrNotSquare)
	}
	for i, row := range rows {
		if len(row) != n {
			return fmt.Errorf("%s row %d has %d entries, want %d: %w", p.matrixKey(), i, len(row), n, ErrNotSquare)
		}
	}
	if len(p.X) != n {
		return fmt.Errorf("len(x)=%d, n=%d: %w", len(p.X), n, ErrVectorLength)
	}

	return nil
}

// N returns the matrix order.
func (p *Problem) N() int { return len(p.rows()) }

// Factor returns the upper factor R of the problem: R itself when given, or the
// Cholesky factor of A. The result is freshly allocated and safe to downdate.
func (p *Problem) Factor(opts ...matrix.Option) (*matrix.Dense, error) {
	if p.R != nil {
		r, err := matrix.NewFromRows(p.R, opts...)
		if err != nil {
			return nil, fmt.Errorf("factor r: %w", err)
		}
		return r, nil
	}

	a, err := matrix.NewFromRows(p.A, opts...)
	if err != nil {
		return nil, fmt.Errorf("factor a: %w", err)
	}
	r, err := matrix.Cholesky(a, opts...)
	if err != nil {
		return nil, fmt.Errorf("factor a: %w", err)
	}

	return r, nil
}

func (p *Problem) rows() [][]float64 {
	if p.R != nil {
		return p.R
	}

	return p.A
}

func (p *Problem) matrixKey() string {
	if p.R != nil {
		return "r"
	}

	return "a"
}
