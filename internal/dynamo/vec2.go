package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D world-space vector. The zero value is the origin.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Div(f float64) Vec2      { return Vec2{v.X / f, v.Y / f} }
func (v Vec2) Dot(o Vec2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Len() float64            { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Len() }

// Perp returns the left perpendicular (-y, x).
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Normalize returns the unit vector. The zero vector normalizes to NaN
// components; callers guard on Len first.
func (v Vec2) Normalize() Vec2 {
	return v.Div(v.Len())
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}
