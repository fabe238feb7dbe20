package gondola

import (
	"math"

	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/spline"
)

// Fixed physical constants of the ride.
const (
	// Gravity is the downward acceleration in world units.
	Gravity = 40.0
	// Radius is the body radius; the body centre rides Radius along the
	// track normal.
	Radius = 1.0
	// Epsilon is the smallest tangent length a step will ride on.
	Epsilon = 0.001
	// StartOffset is how far past the first knot the body starts.
	StartOffset = 0.01
)

// Track is the geometry a Body rides. The body never mutates it.
type Track interface {
	spline.Evaluator
	KnotRange() (float64, float64)
	Len() int
}

// Phase is the body lifecycle: Idle until started, Running while it rides,
// Fallen once it lost contact or ran off the end.
type Phase int

const (
	Idle Phase = iota
	Running
	Fallen
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Fallen:
		return "fallen"
	default:
		return "unknown"
	}
}

// FallCause says why a Fallen body stopped.
type FallCause int

const (
	NotFallen FallCause = iota
	// LostContact: radial force went negative.
	LostContact
	// RanOut: parameter passed the last knot.
	RanOut
)

func (c FallCause) String() string {
	switch c {
	case NotFallen:
		return "none"
	case LostContact:
		return "lost contact"
	case RanOut:
		return "ran out of track"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the body state for renderers and metrics.
type Snapshot struct {
	Param    float64
	Position dynamo.Vec2
	Heading  float64
	Speed    float64
	Force    float64
	Energy   float64
	Phase    Phase
	Cause    FallCause
}

// IsValid reports whether every numeric field is finite.
func (s Snapshot) IsValid() bool {
	for _, v := range []float64{s.Param, s.Heading, s.Speed, s.Force} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Position.IsValid()
}

// Body holds a non-owning reference to its track.
type Body struct {
	track    Track
	param    float64
	speed    float64
	heading  float64
	energy   float64
	force    float64
	position dynamo.Vec2
	phase    Phase
	cause    FallCause
}

// NewBody returns an Idle body on track.
func NewBody(track Track) *Body {
	return &Body{track: track, phase: Idle}
}

// Start places the body just past the first knot and switches it to
// Running. It is a no-op unless the body is Idle, and also when the track
// has no usable tangent there (fewer than two points or coincident points).
// It reports whether the body started.
func (b *Body) Start() bool {
	if b.phase != Idle {
		return false
	}
	if b.track.Len() < 2 {
		return false
	}

	first, _ := b.track.KnotRange()
	param := first + StartOffset

	r := b.track.Evaluate(param)
	tangent := spline.Derivative(b.track, param)
	if tangent.Len() < Epsilon {
		return false
	}
	normal := tangent.Normalize().Perp()

	b.param = param
	b.speed = 0
	b.position = r.Add(normal.Scale(Radius))
	b.heading = 0
	b.force = 0
	b.energy = Gravity*r.Y + 0.5
	b.phase = Running
	return true
}

// Step advances a Running body by dt. Degenerate tangents skip the step
// without changing state.
func (b *Body) Step(dt float64) {
	if b.phase != Running {
		return
	}

	r := b.track.Evaluate(b.param)
	tangent := spline.Derivative(b.track, b.param)
	second := spline.SecondDerivative(b.track, b.param)
	tangentLen := tangent.Len()
	if tangentLen < Epsilon {
		return
	}

	normal := tangent.Div(tangentLen).Perp()

	first, last := b.track.KnotRange()
	currentHeight := r.Add(normal.Scale(Radius)).Y
	initialHeight := b.track.Evaluate(first).Add(normal.Scale(Radius)).Y

	// Rising above the start height makes the radicand negative and the
	// speed NaN. Not clamped; sim.Run reports it as ErrInvalidState.
	b.speed = math.Sqrt(Gravity * (initialHeight - currentHeight))

	curvature := tangent.Cross(second) / math.Pow(tangentLen, 3)
	b.force = curvature*b.speed*b.speed + Gravity*normal.Y

	if b.force < 0 {
		b.fall(LostContact)
		return
	}

	b.param += b.speed * dt / tangentLen
	b.position = r.Add(normal.Scale(Radius))
	b.heading -= (b.speed / Radius) * dt

	if b.param > last {
		b.fall(RanOut)
	}
}

func (b *Body) fall(cause FallCause) {
	b.phase = Fallen
	b.cause = cause
}

func (b *Body) Phase() Phase          { return b.phase }
func (b *Body) Cause() FallCause      { return b.cause }
func (b *Body) Param() float64        { return b.param }
func (b *Body) Speed() float64        { return b.speed }
func (b *Body) Heading() float64      { return b.heading }
func (b *Body) Position() dynamo.Vec2 { return b.position }
func (b *Body) Energy() float64       { return b.energy }
func (b *Body) RadialForce() float64  { return b.force }
func (b *Body) Track() Track          { return b.track }

func (b *Body) Snapshot() Snapshot {
	return Snapshot{
		Param:    b.param,
		Position: b.position,
		Heading:  b.heading,
		Speed:    b.speed,
		Force:    b.force,
		Energy:   b.energy,
		Phase:    b.phase,
		Cause:    b.cause,
	}
}
