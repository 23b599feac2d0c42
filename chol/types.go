package chol

import "fmt"

// Status is the algorithmic outcome of a downdate.
//
//   - Success            : R was rewritten to R' (code 0).
//   - NotPositiveDefinite: ‖s‖₂ ≥ 1, A − xxᵗ is not positive definite;
//     R is left exactly as it was (code −1).
//   - Invalid            : returned alongside a non-nil precondition error;
//     R is left exactly as it was (code 1).
//
// The integer codes match the routine this package replaces, so callers that
// switch on 0 / −1 keep working through Code().
type Status int

const (
	// Success means R now holds the downdated factor.
	Success Status = 0

	// NotPositiveDefinite means the downdate was rejected by the stability check.
	NotPositiveDefinite Status = -1

	// Invalid accompanies a precondition error; no work was done.
	Invalid Status = 1
)

// Code returns the integer status code (0, −1, or 1).
func (s Status) Code() int { return int(s) }

// Err maps NotPositiveDefinite to ErrNotPositiveDefinite and everything else to nil.
func (s Status) Err() error {
	if s == NotPositiveDefinite {
		return ErrNotPositiveDefinite
	}

	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case NotPositiveDefinite:
		return "not positive definite"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Stage identifies a state of the downdate state machine.
//
//	Start → Solved → Normed → { Rejected | Rotated } → Done
//
// Rejected and Done are terminal; scratch is released on both paths.
type Stage int

const (
	StageStart    Stage = iota // inputs validated, scratch acquired
	StageSolved                // Rᵗs = x solved
	StageNormed                // ρ = ‖s‖₂ known (trace value: ρ)
	StageRejected              // ρ ≥ 1, terminal (trace value: ρ)
	StageRotated               // rotations built and applied (trace value: final α)
	StageDone                  // terminal success
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageSolved:
		return "solved"
	case StageNormed:
		return "normed"
	case StageRejected:
		return "rejected"
	case StageRotated:
		return "rotated"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// TraceFunc observes stage transitions. value carries ρ for StageNormed and
// StageRejected, the final α for StageRotated, and 0 otherwise.
// It runs synchronously on the calling goroutine.
type TraceFunc func(stage Stage, value float64)
