package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for orchestration and I/O around the simulation.
var (
	// ErrTrackTooShort indicates fewer than two control points, so no tangent
	// exists to start the body on.
	ErrTrackTooShort = errors.New("dynamo: track needs at least two control points")

	// ErrNoTangent indicates a track whose start has no usable tangent,
	// such as coincident first points.
	ErrNoTangent = errors.New("dynamo: track has no tangent at its start")

	// ErrInvalidState indicates the body state became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownPreset indicates a track preset name that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown track preset")
)

// SimError wraps an error with the step at which it happened.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
