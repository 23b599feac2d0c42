package chol

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/choldown/matrix"
)

// maxPooledN bounds the scratch kept alive between calls; larger workspaces are
// dropped after use instead of being returned to the pool.
const maxPooledN = 1 << 14

// workspace owns the per-call scratch: cos holds the rotation cosines, sin first
// holds the solution of Rᵗs = x and is then overwritten with the rotation sines.
type workspace struct {
	cos []float64
	sin []float64
}

var workspacePool = sync.Pool{
	New: func() any { return new(workspace) },
}

// acquireWorkspace returns zeroed scratch of length n, exclusively owned by the caller
// until release.
func acquireWorkspace(n int) *workspace {
	ws := workspacePool.Get().(*workspace)
	if cap(ws.cos) < n {
		ws.cos = make([]float64, n)
		ws.sin = make([]float64, n)
	}
	ws.cos = ws.cos[:n]
	ws.sin = ws.sin[:n]
	clear(ws.cos)
	clear(ws.sin)

	return ws
}

func (ws *workspace) release() {
	if cap(ws.cos) > maxPooledN {
		return
	}
	workspacePool.Put(ws)
}

// DowndateRaw computes, in place, the upper Cholesky factor R' of A − xxᵗ where
// A = RᵗR and R is the n×n upper-triangular factor stored column-major in r
// (R(i,j) = r[j*n+i]; only i <= j is read or written).
//
// Implementation (state machine):
//   - Stage 1 (Start):   validate n, len(r), len(x), finiteness; acquire scratch.
//   - Stage 2 (Solved):  SolveUpperT, Rᵗs = x.
//   - Stage 3 (Normed):  ρ = Nrm2(s).
//   - Stage 4:           ρ ≥ 1 ⇒ Rejected, return NotPositiveDefinite.
//   - Stage 5 (Rotated): BuildRotations + ApplyRotations rewrite r.
//   - Stage 6 (Done):    release scratch, return Success.
//
// Scratch is released by a deferred call on every path.
//
// Returns:
//   - (Success, nil)            : r holds R'.
//   - (NotPositiveDefinite, nil): r is unchanged.
//   - (Invalid, err)            : precondition violation, r is unchanged:
//     ErrBadDimension, ErrDimensionMismatch, ErrZeroDiagonal, ErrNaNInf,
//     ErrNotUpperTriangular (WithStrictUpper).
//
// x is never written. The caller must not touch r concurrently with the call.
// Complexity: O(n²) time, O(n) scratch.
func DowndateRaw(n int, r, x []float64, opts ...Option) (Status, error) {
	// Stage 1: Validate inputs
	if n < 1 {
		return Invalid, fmt.Errorf("DowndateRaw: n=%d: %w", n, ErrBadDimension)
	}
	if len(r) != n*n {
		return Invalid, fmt.Errorf("DowndateRaw: len(R)=%d, want %d: %w", len(r), n*n, ErrDimensionMismatch)
	}
	if len(x) != n {
		return Invalid, fmt.Errorf("DowndateRaw: len(x)=%d, want %d: %w", len(x), n, ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	if err := checkFactor(n, r, x, &o); err != nil {
		return Invalid, fmt.Errorf("DowndateRaw: %w", err)
	}

	ws := acquireWorkspace(n)
	defer ws.release()
	o.trace(StageStart, 0)

	// Stage 2: Solve Rᵗs = x
	if err := SolveUpperT(n, r, x, ws.sin); err != nil {
		return Invalid, fmt.Errorf("DowndateRaw: %w", err)
	}
	o.trace(StageSolved, 0)

	// Stage 3: ρ = ‖s‖₂
	rho := Nrm2(ws.sin)
	o.trace(StageNormed, rho)

	// Stage 4: stability check + rotation coefficients
	alpha, ok := BuildRotations(rho, ws.sin, ws.cos)
	if !ok {
		o.trace(StageRejected, rho)
		return NotPositiveDefinite, nil
	}

	// Stage 5: rotate R in place
	ApplyRotations(n, r, ws.cos, ws.sin)
	o.trace(StageRotated, alpha)

	// Stage 6: Finalize
	o.trace(StageDone, 0)

	return Success, nil
}

// Downdate is DowndateRaw over a square matrix.Dense; the factor's backing
// buffer is rewritten in place.
//
// Errors (with Invalid): ErrNilFactor, ErrDimensionMismatch (non-square), plus
// everything DowndateRaw reports.
func Downdate(r *matrix.Dense, x []float64, opts ...Option) (Status, error) {
	if r == nil {
		return Invalid, fmt.Errorf("Downdate: %w", ErrNilFactor)
	}
	if r.Rows() != r.Cols() {
		return Invalid, fmt.Errorf("Downdate: %dx%d factor: %w", r.Rows(), r.Cols(), ErrDimensionMismatch)
	}

	return DowndateRaw(r.Rows(), r.RawData(), x, opts...)
}

// Downdated is the non-mutating variant: it downdates a copy of r and returns it.
// The returned matrix is nil unless the status is Success.
func Downdated(r *matrix.Dense, x []float64, opts ...Option) (*matrix.Dense, Status, error) {
	if r == nil {
		return nil, Invalid, fmt.Errorf("Downdated: %w", ErrNilFactor)
	}
	out := r.Copy()
	status, err := Downdate(out, x, opts...)
	if err != nil || status != Success {
		return nil, status, err
	}

	return out, status, nil
}
