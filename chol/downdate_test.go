package chol_test

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/choldown/chol"
	"github.com/katalvlaran/choldown/matrix"
)

// TestDowndate_TwoByTwo walks the documented 2×2 scenario:
// A = [[4,2],[2,2]], x = [1,0] ⇒ s = [0.5,−0.5], ρ = √0.5, A − xxᵗ = [[3,2],[2,2]].
func TestDowndate_TwoByTwo(t *testing.T) {
	r := MustFromRows(t, [][]float64{{2, 1}, {0, 1}})
	x := []float64{1, 0}

	s := make([]float64, 2)
	require.NoError(t, chol.SolveUpperT(2, r.RawData(), x, s))
	assert.InDelta(t, 0.5, s[0], 1e-15)
	assert.InDelta(t, -0.5, s[1], 1e-15)
	assert.InDelta(t, math.Sqrt(0.5), chol.Nrm2(s), 1e-15)

	status, err := chol.Downdate(r, x)
	require.NoError(t, err)
	require.Equal(t, chol.Success, status)
	assert.Equal(t, 0, status.Code())

	got, err := matrix.Gram(r)
	require.NoError(t, err)
	want := MustFromRows(t, [][]float64{{3, 2}, {2, 2}})
	ok, err := matrix.AllClose(got, want, 1e-12, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok, "R'ᵗR' = %v", got)

	// The factor is the unique one with a positive diagonal.
	UpperEqual(t, MustFromRows(t, [][]float64{{math.Sqrt(3), 2 / math.Sqrt(3)}, {0, math.Sqrt(2.0 / 3.0)}}), r, 1e-12)
	assert.Zero(t, r.RawData()[1], "entry below the diagonal is never written")
}

// TestDowndate_NotPositiveDefinite_1x1: R=[[1]], x=[1] ⇒ s=[1], ρ=1 ⇒ rejected.
func TestDowndate_NotPositiveDefinite_1x1(t *testing.T) {
	r := []float64{1}
	status, err := chol.DowndateRaw(1, r, []float64{1})
	require.NoError(t, err, "rejection is an outcome, not an error")
	assert.Equal(t, chol.NotPositiveDefinite, status)
	assert.Equal(t, -1, status.Code())
	assert.ErrorIs(t, status.Err(), chol.ErrNotPositiveDefinite)
	assert.Equal(t, []float64{1}, r, "R must be unmodified")
}

func TestDowndate_1x1_Success(t *testing.T) {
	r := []float64{2}
	status, err := chol.DowndateRaw(1, r, []float64{1})
	require.NoError(t, err)
	require.Equal(t, chol.Success, status)
	assert.InDelta(t, math.Sqrt(3), r[0], 1e-15)
}

// TestDowndate_RandomReconstruction checks R'ᵗR' ≈ RᵗR − xxᵗ for random
// well-conditioned factors and ρ < 1, and agreement with gonum's factorization.
func TestDowndate_RandomReconstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 3, 5, 8, 13, 21} {
		for _, rho := range []float64{0, 0.1, 0.5, 0.9} {
			t.Run(fmt.Sprintf("n=%d/rho=%g", n, rho), func(t *testing.T) {
				orig := RandomFactor(t, rng, n)
				x := VectorWithRho(t, rng, orig, rho)
				xCopy := append([]float64(nil), x...)

				r := orig.Copy()
				status, err := chol.Downdate(r, x)
				require.NoError(t, err)
				require.Equal(t, chol.Success, status)
				assert.Equal(t, xCopy, x, "x must not be mutated")

				res, err := chol.Residual(orig, r, x)
				require.NoError(t, err)
				assert.Less(t, res, 1e-10)

				// Positive diagonal is preserved.
				require.NoError(t, matrix.ValidatePositiveDiagonal(r))

				// Same factor as refactoring A − xxᵗ from scratch.
				a, err := matrix.Gram(orig)
				require.NoError(t, err)
				xx, err := matrix.Outer(x)
				require.NoError(t, err)
				target, err := matrix.Sub(a, xx)
				require.NoError(t, err)
				var ch mat.Cholesky
				require.True(t, ch.Factorize(mat.NewSymDense(n, target.RawData())))
				var u mat.TriDense
				ch.UTo(&u)
				ref, err := chol.FromTriangular(&u)
				require.NoError(t, err)
				UpperEqual(t, ref, r, 1e-9)
			})
		}
	}
}

// TestDowndate_RejectedLeavesFactorUntouched covers ρ >= 1 on random inputs.
func TestDowndate_RejectedLeavesFactorUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, rho := range []float64{1.0001, 1.5, 10} {
		orig := RandomFactor(t, rng, 6)
		x := VectorWithRho(t, rng, orig, rho)
		r := orig.Copy()

		status, err := chol.Downdate(r, x)
		require.NoError(t, err)
		assert.Equal(t, chol.NotPositiveDefinite, status, "rho=%g", rho)
		assert.Equal(t, orig.RawData(), r.RawData(), "bitwise unchanged")
	}
}

// TestDowndate_UpdateBackRecoversFactor downdates with x, then updates with the
// same x through gonum's SymRankOne; the original factor must come back.
func TestDowndate_UpdateBackRecoversFactor(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for _, n := range []int{2, 4, 9} {
		orig := RandomFactor(t, rng, n)
		x := VectorWithRho(t, rng, orig, 0.6)

		down, status, err := chol.Downdated(orig, x)
		require.NoError(t, err)
		require.Equal(t, chol.Success, status)

		td, err := chol.ToTriDense(down)
		require.NoError(t, err)
		var ch, up mat.Cholesky
		ch.SetFromU(td)
		require.True(t, up.SymRankOne(&ch, 1, mat.NewVecDense(n, append([]float64(nil), x...))))
		var u mat.TriDense
		up.UTo(&u)
		back, err := chol.FromTriangular(&u)
		require.NoError(t, err)

		UpperEqual(t, orig, back, 1e-9)
	}
}

func TestDowndate_RawAndDenseAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	orig := RandomFactor(t, rng, 7)
	x := VectorWithRho(t, rng, orig, 0.8)

	raw := append([]float64(nil), orig.RawData()...)
	s1, err := chol.DowndateRaw(7, raw, x)
	require.NoError(t, err)

	r := orig.Copy()
	s2, err := chol.Downdate(r, x)
	require.NoError(t, err)

	assert.Equal(t, s1, s2)
	assert.Equal(t, raw, r.RawData(), "both entry points run the same kernel")
}

// TestDowndate_LowerTriangleIgnored: garbage below the diagonal neither affects
// the result nor gets overwritten.
func TestDowndate_LowerTriangleIgnored(t *testing.T) {
	clean := MustFromRows(t, [][]float64{{2, 1, 0.5}, {0, 1.5, -0.25}, {0, 0, 1}})
	dirty := MustFromRows(t, [][]float64{{2, 1, 0.5}, {99, 1.5, -0.25}, {-7, 42, 1}})
	x := []float64{0.5, 0.25, 0.1}

	_, err := chol.Downdate(clean, x)
	require.NoError(t, err)
	_, err = chol.Downdate(dirty, x)
	require.NoError(t, err)

	UpperEqual(t, clean, dirty, 0)
	v, _ := dirty.At(1, 0)
	assert.Equal(t, 99.0, v)
	v, _ = dirty.At(2, 1)
	assert.Equal(t, 42.0, v)
}

func TestDowndate_PreconditionErrors(t *testing.T) {
	good := func() []float64 { return []float64{2, 0, 1, 1} } // [[2,1],[0,1]] column-major

	for _, tc := range []struct {
		name string
		n    int
		r    []float64
		x    []float64
		opts []chol.Option
		want error
	}{
		{"n zero", 0, []float64{}, []float64{}, nil, chol.ErrBadDimension},
		{"n negative", -3, good(), []float64{1, 0}, nil, chol.ErrBadDimension},
		{"short x", 2, good(), []float64{1}, nil, chol.ErrDimensionMismatch},
		{"long x", 2, good(), []float64{1, 0, 0}, nil, chol.ErrDimensionMismatch},
		{"short R", 2, []float64{2, 0, 1}, []float64{1, 0}, nil, chol.ErrDimensionMismatch},
		{"zero first diagonal", 2, []float64{0, 0, 1, 1}, []float64{1, 0}, nil, chol.ErrZeroDiagonal},
		{"zero last diagonal", 2, []float64{2, 0, 1, 0}, []float64{1, 0}, nil, chol.ErrZeroDiagonal},
		{"NaN in x", 2, good(), []float64{math.NaN(), 0}, nil, chol.ErrNaNInf},
		{"Inf in R", 2, []float64{2, 0, math.Inf(1), 1}, []float64{1, 0}, nil, chol.ErrNaNInf},
		{"strict upper", 2, []float64{2, 0.5, 1, 1}, []float64{1, 0}, []chol.Option{chol.WithStrictUpper(1e-12)}, chol.ErrNotUpperTriangular},
	} {
		t.Run(tc.name, func(t *testing.T) {
			before := slices.Clone(tc.r) // keeps an empty R non-nil
			status, err := chol.DowndateRaw(tc.n, tc.r, tc.x, tc.opts...)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, chol.Invalid, status)
			assert.NoError(t, status.Err())
			assert.Equal(t, before, tc.r, "R must be unmodified on precondition errors")
		})
	}
}

func TestDowndate_DenseErrors(t *testing.T) {
	status, err := chol.Downdate(nil, []float64{1})
	require.ErrorIs(t, err, chol.ErrNilFactor)
	assert.Equal(t, chol.Invalid, status)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = chol.Downdate(rect, []float64{1, 2})
	require.ErrorIs(t, err, chol.ErrDimensionMismatch)

	_, _, err = chol.Downdated(nil, nil)
	require.ErrorIs(t, err, chol.ErrNilFactor)
}

func TestDowndate_WithoutNaNCheck(t *testing.T) {
	r := []float64{2, 0, 1, 1}
	before := append([]float64(nil), r...)
	status, err := chol.DowndateRaw(2, r, []float64{math.NaN(), 0}, chol.WithoutNaNCheck())
	require.NoError(t, err)
	assert.Equal(t, chol.NotPositiveDefinite, status, "a NaN norm cannot certify positive definiteness")
	assert.Equal(t, before, r)
}

func TestDowndate_StrictUpperAccepts(t *testing.T) {
	r := []float64{2, 1e-15, 1, 1}
	status, err := chol.DowndateRaw(2, r, []float64{1, 0}, chol.WithStrictUpper(1e-12))
	require.NoError(t, err)
	assert.Equal(t, chol.Success, status)
}

func TestWithStrictUpper_PanicsOnBadTolerance(t *testing.T) {
	assert.Panics(t, func() { chol.WithStrictUpper(-1) })
	assert.Panics(t, func() { chol.WithStrictUpper(math.NaN()) })
}

func TestDowndate_TraceStages(t *testing.T) {
	var stages []chol.Stage
	var values []float64
	trace := chol.WithTrace(func(s chol.Stage, v float64) {
		stages = append(stages, s)
		values = append(values, v)
	})

	_, err := chol.DowndateRaw(2, []float64{2, 0, 1, 1}, []float64{1, 0}, trace)
	require.NoError(t, err)
	assert.Equal(t, []chol.Stage{chol.StageStart, chol.StageSolved, chol.StageNormed, chol.StageRotated, chol.StageDone}, stages)
	assert.InDelta(t, math.Sqrt(0.5), values[2], 1e-15)
	assert.InDelta(t, 1.0, values[3], 1e-12, "final alpha")

	stages, values = nil, nil
	_, err = chol.DowndateRaw(1, []float64{1}, []float64{1}, trace)
	require.NoError(t, err)
	assert.Equal(t, []chol.Stage{chol.StageStart, chol.StageSolved, chol.StageNormed, chol.StageRejected}, stages)
	assert.Equal(t, 1.0, values[3])
}

// TestDowndate_Concurrent runs independent downdates in parallel; each goroutine
// owns its factor, scratch comes from the shared pool.
func TestDowndate_Concurrent(t *testing.T) {
	const workers = 16
	rng := rand.New(rand.NewSource(99))
	origs := make([]*matrix.Dense, workers)
	xs := make([][]float64, workers)
	for w := range origs {
		origs[w] = RandomFactor(t, rng, 3+w%5)
		xs[w] = VectorWithRho(t, rng, origs[w], 0.7)
	}

	var wg sync.WaitGroup
	results := make([]*matrix.Dense, workers)
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				r := origs[w].Copy()
				if _, err := chol.Downdate(r, xs[w]); err != nil {
					errs[w] = err
					return
				}
				results[w] = r
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		res, err := chol.Residual(origs[w], results[w], xs[w])
		require.NoError(t, err)
		assert.Less(t, res, 1e-10)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", chol.Success.String())
	assert.Equal(t, "not positive definite", chol.NotPositiveDefinite.String())
	assert.Equal(t, "invalid", chol.Invalid.String())
	assert.Equal(t, "Status(5)", chol.Status(5).String())
	assert.Equal(t, "rotated", chol.StageRotated.String())
}
