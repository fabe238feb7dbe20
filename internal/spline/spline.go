// Package spline implements the curve evaluator: a Catmull-Rom style
// piecewise cubic Hermite curve through control points with increasing
// knots, plus finite-difference derivatives.
package spline

import (
	"math"

	"github.com/san-kum/gondola/internal/dynamo"
)

// DerivativeStep is the symmetric finite-difference step used by
// Derivative and SecondDerivative.
const DerivativeStep = 0.001

// Evaluator maps a knot-space parameter to a world-space point.
type Evaluator interface {
	Evaluate(t float64) dynamo.Vec2
}

// Spline stores control points and their knots. Knots equal the insertion
// index; points are only ever appended.
type Spline struct {
	points []dynamo.Vec2
	knots  []float64
}

func New() *Spline {
	return &Spline{}
}

// AddControlPoint appends p and returns the knot assigned to it.
func (s *Spline) AddControlPoint(p dynamo.Vec2) float64 {
	t := 0.0
	if len(s.points) > 0 {
		t = s.knots[len(s.knots)-1] + 1
	}
	s.points = append(s.points, p)
	s.knots = append(s.knots, t)
	return t
}

func (s *Spline) Len() int { return len(s.points) }

// Knots returns a copy of the knot sequence.
func (s *Spline) Knots() []float64 {
	out := make([]float64, len(s.knots))
	copy(out, s.knots)
	return out
}

// ControlPoints returns a copy of the control points.
func (s *Spline) ControlPoints() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(s.points))
	copy(out, s.points)
	return out
}

// KnotRange returns the first and last knot, or (0, 0) for an empty spline.
func (s *Spline) KnotRange() (float64, float64) {
	if len(s.knots) == 0 {
		return 0, 0
	}
	return s.knots[0], s.knots[len(s.knots)-1]
}

// Evaluate returns the curve point at t. With fewer than two control points
// it returns the origin. Outside the knot range it returns the nearest end
// control point: below the first knot that is the first point, not the
// last. A t on a shared knot resolves to the earlier segment.
func (s *Spline) Evaluate(t float64) dynamo.Vec2 {
	n := len(s.points)
	if n < 2 {
		return dynamo.Vec2{}
	}
	if t < s.knots[0] {
		return s.points[0]
	}

	for i := 0; i < n-1; i++ {
		if s.knots[i] <= t && t <= s.knots[i+1] {
			var v0, v1 dynamo.Vec2
			if i > 0 {
				v0 = s.points[i+1].Sub(s.points[i-1]).Div(s.knots[i+1] - s.knots[i-1])
			}
			if i < n-2 {
				v1 = s.points[i+2].Sub(s.points[i]).Div(s.knots[i+2] - s.knots[i])
			}
			return Hermite(s.points[i], v0, s.knots[i], s.points[i+1], v1, s.knots[i+1], t)
		}
	}

	return s.points[n-1]
}

// Hermite evaluates the cubic through p0 (tangent v0, knot t0) and p1
// (tangent v1, knot t1) at t.
func Hermite(p0, v0 dynamo.Vec2, t0 float64, p1, v1 dynamo.Vec2, t1 float64, t float64) dynamo.Vec2 {
	d := t1 - t0
	s := (t - t0) / d

	a0 := p0
	a1 := v0
	a2 := p1.Sub(p0).Scale(3).Div(d).Div(d).Sub(v1.Add(v0.Scale(2)).Div(d))
	a3 := p0.Sub(p1).Scale(2).Div(math.Pow(d, 3)).Add(v1.Add(v0).Div(math.Pow(d, 2)))

	return a3.Scale(s).Add(a2).Scale(s).Add(a1).Scale(s).Add(a0)
}

// Derivative approximates the first derivative of e at t by a symmetric
// difference. Closed-form derivatives differ at segment joins and are not
// a substitute.
func Derivative(e Evaluator, t float64) dynamo.Vec2 {
	const h = DerivativeStep
	return e.Evaluate(t + h).Sub(e.Evaluate(t - h)).Div(2 * h)
}

// SecondDerivative approximates the second derivative of e at t.
func SecondDerivative(e Evaluator, t float64) dynamo.Vec2 {
	const h = DerivativeStep
	return e.Evaluate(t + h).Sub(e.Evaluate(t).Scale(2)).Add(e.Evaluate(t - h)).Div(h * h)
}
