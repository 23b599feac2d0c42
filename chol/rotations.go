package chol

import "math"

// BuildRotations turns the solution s of Rᵗs = x into the n rotation pairs
// (c[i], s[i]) that deflate R, given rho = ‖s‖₂.
//
// Stability check: rho ≥ 1 (or NaN) means A − xxᵗ is not positive definite;
// ok is false and neither s nor c is written.
//
// Otherwise α = √(1 − rho²) and, for i = n−1 down to 0 (strictly descending,
// every step consumes the α left by the previous one):
//
//	scale = α + |s[i]|
//	a, b  = α/scale, s[i]/scale
//	nrm   = hypot(a, b)
//	c[i], s[i] = a/nrm, b/nrm        (s is overwritten in place)
//	α     = scale·nrm
//
// Dividing by scale before hypot keeps a and b in [0, 1]; hypot itself avoids
// the intermediate a²+b² overflow. The returned alpha is the final α (it equals 1
// up to rounding for a consistent s and rho).
//
// c must be at least as long as s.
func BuildRotations(rho float64, s, c []float64) (alpha float64, ok bool) {
	if !(rho < 1) {
		return 0, false
	}
	alpha = math.Sqrt(1 - rho*rho)

	var (
		scale, a, b, nrm float64
	)
	for i := len(s) - 1; i >= 0; i-- {
		scale = alpha + math.Abs(s[i])
		a = alpha / scale
		b = s[i] / scale
		nrm = math.Hypot(a, b)
		c[i] = a / nrm
		s[i] = b / nrm
		alpha = scale * nrm
	}

	return alpha, true
}

// ApplyRotations rewrites the n×n column-major factor r in place with the
// rotations (c, s) produced by BuildRotations.
//
// For every column j an accumulator xx starts at 0 and travels up the column,
// i = j down to 0 (each step feeds the next lower i):
//
//	t      = xx·c[i] + R(i,j)·s[i]
//	R(i,j) = R(i,j)·c[i] − xx·s[i]
//	xx     = t
//
// Only entries with i <= j are addressed. Columns are independent of each other;
// within a column the order is fixed. No allocation.
func ApplyRotations(n int, r, c, s []float64) {
	var (
		i, j  int
		xx, t float64
		col   []float64
		rij   float64
	)
	for j = 0; j < n; j++ {
		col = r[j*n : j*n+j+1] // R(0..j, j)
		xx = 0
		for i = j; i >= 0; i-- {
			rij = col[i]
			t = xx*c[i] + rij*s[i]
			col[i] = rij*c[i] - xx*s[i]
			xx = t
		}
	}
}
