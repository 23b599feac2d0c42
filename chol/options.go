package chol

import "math"

const panicStrictUpperTol = "chol: WithStrictUpper: tol must be finite, non-negative"

// Option configures a single Downdate call.
type Option func(*Options)

// Options is the effective configuration of a call.
//
// Fields:
//   - CheckNaNInf: reject non-finite entries of x and of R's upper triangle
//     before any work (default true). When disabled, a NaN ρ is treated as a
//     failed stability check rather than a success.
//   - StrictUpper: also require |R(i,j)| <= StrictUpperTol for i > j. Off by
//     default: the kernel never reads below the diagonal.
//   - Trace      : optional stage observer.
type Options struct {
	CheckNaNInf    bool
	StrictUpper    bool
	StrictUpperTol float64
	Trace          TraceFunc
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{CheckNaNInf: true}
}

// WithNaNCheck enables finite-value validation of R and x (the default).
func WithNaNCheck() Option {
	return func(o *Options) { o.CheckNaNInf = true }
}

// WithoutNaNCheck skips finite-value validation. Inputs are then trusted as-is.
func WithoutNaNCheck() Option {
	return func(o *Options) { o.CheckNaNInf = false }
}

// WithStrictUpper requires every strictly-lower entry of R to be within tol of zero.
// Panics on a negative or non-finite tol (programmer error).
func WithStrictUpper(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicStrictUpperTol)
	}

	return func(o *Options) {
		o.StrictUpper = true
		o.StrictUpperTol = tol
	}
}

// WithTrace installs a stage observer.
func WithTrace(fn TraceFunc) Option {
	return func(o *Options) { o.Trace = fn }
}

func gatherOptions(user ...Option) Options {
	o := DefaultOptions()
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func (o *Options) trace(stage Stage, value float64) {
	if o.Trace != nil {
		o.Trace(stage, value)
	}
}
