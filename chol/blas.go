package chol

import "math"

// Dot returns Σ x[i]·y[i] over i = 0..len(x)−1, accumulated in index order.
// y must be at least as long as x; a shorter y panics (programmer error).
func Dot(x, y []float64) float64 {
	var sum float64
	y = y[:len(x)] // single bounds check, lets the compiler drop the per-step one
	for i, v := range x {
		sum += v * y[i]
	}

	return sum
}

// ScaledSumSquares folds x into a scaled sum of squares (LAPACK DLASSQ).
//
// The pair (scale, ssq) represents scale²·ssq. On return,
//
//	scl²·smsq = scale²·ssq + Σ x[i]²
//
// with scl = max(scale, max|x[i]|). Every squared quantity is a ratio <= 1,
// so ssq stays bounded by the element count and nothing overflows or flushes to zero.
// Start a fresh accumulation with (0, 1). Zero entries are skipped; a NaN
// entry is folded in and poisons the result.
func ScaledSumSquares(x []float64, scale, ssq float64) (scl, smsq float64) {
	var absxi float64
	for _, v := range x {
		absxi = math.Abs(v)
		if absxi > 0 || math.IsNaN(absxi) {
			if scale < absxi {
				ssq = 1 + ssq*(scale/absxi)*(scale/absxi)
				scale = absxi
			} else {
				ssq += (absxi / scale) * (absxi / scale)
			}
		}
	}

	return scale, ssq
}

// Nrm2 returns the Euclidean norm ‖x‖₂ without unnecessary overflow or underflow.
//
//   - len(x) == 0 ⇒ 0.
//   - all zeros   ⇒ 0.
//   - any NaN     ⇒ NaN.
//   - any ±Inf    ⇒ +Inf (when no NaN is present).
//
// Complexity: O(len(x)), one division per non-zero element.
func Nrm2(x []float64) float64 {
	if len(x) < 1 {
		return 0
	}
	for _, v := range x {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	scale, ssq := ScaledSumSquares(x, 0, 1)
	if math.IsInf(scale, 1) {
		return math.Inf(1) // Inf/Inf inside the accumulation would otherwise yield NaN
	}

	return scale * math.Sqrt(ssq)
}
