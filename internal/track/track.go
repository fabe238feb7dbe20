// Package track owns the user-grown control point list and keeps a dense
// sample polyline of the curve for display.
package track

import (
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/spline"
)

// SampleSegments is the number of segments the display polyline is cut
// into over the full knot range.
const SampleSegments = 100

// Track is append-only: points are never moved, removed or reordered.
type Track struct {
	name    string
	curve   *spline.Spline
	samples []dynamo.Vec2
}

func New(name string) *Track {
	return &Track{name: name, curve: spline.New()}
}

// FromPoints builds a track by adding pts in order.
func FromPoints(name string, pts []dynamo.Vec2) *Track {
	t := New(name)
	for _, p := range pts {
		t.AddControlPoint(p)
	}
	return t
}

func (t *Track) Name() string { return t.name }

// AddControlPoint appends p, assigns the next knot and rebuilds the sample
// polyline.
func (t *Track) AddControlPoint(p dynamo.Vec2) float64 {
	k := t.curve.AddControlPoint(p)
	t.rebuild()
	return k
}

func (t *Track) rebuild() {
	t.samples = t.samples[:0]
	if t.curve.Len() < 2 {
		return
	}

	lo, hi := t.curve.KnotRange()
	for i := 0; i <= SampleSegments; i++ {
		u := lo + (hi-lo)*float64(i)/SampleSegments
		t.samples = append(t.samples, t.curve.Evaluate(u))
	}
}

func (t *Track) Evaluate(u float64) dynamo.Vec2 { return t.curve.Evaluate(u) }

func (t *Track) KnotRange() (float64, float64) { return t.curve.KnotRange() }

func (t *Track) Len() int { return t.curve.Len() }

func (t *Track) Knots() []float64 { return t.curve.Knots() }

func (t *Track) ControlPoints() []dynamo.Vec2 { return t.curve.ControlPoints() }

// Samples returns a copy of the display polyline; empty with fewer than two
// control points.
func (t *Track) Samples() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(t.samples))
	copy(out, t.samples)
	return out
}

// Length returns the arc length of the sample polyline.
func (t *Track) Length() float64 {
	total := 0.0
	for i := 1; i < len(t.samples); i++ {
		total += t.samples[i-1].Distance(t.samples[i])
	}
	return total
}

// Bounds returns the bounding box of the control points and samples.
func (t *Track) Bounds() (min, max dynamo.Vec2, ok bool) {
	return BoundsOf(t.curve.ControlPoints(), t.samples)
}

// BoundsOf returns the bounding box over several point sets; ok is false
// when all sets are empty.
func BoundsOf(sets ...[]dynamo.Vec2) (min, max dynamo.Vec2, ok bool) {
	for _, pts := range sets {
		for _, p := range pts {
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max, ok
}
