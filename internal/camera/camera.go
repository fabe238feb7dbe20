// Package camera maps between device pixel space and the fixed world
// viewport. Pixel y grows downwards, world y grows upwards.
package camera

import "github.com/san-kum/gondola/internal/dynamo"

type Camera struct {
	Center dynamo.Vec2
	Size   dynamo.Vec2
}

func New(center, size dynamo.Vec2) *Camera {
	return &Camera{Center: center, Size: size}
}

// PixelToWorld converts a pixel position inside a window of the given size
// to world coordinates. The window edges land on the viewport edges for any
// centre, so the window centre maps to Center.
func (c *Camera) PixelToWorld(pixel, window dynamo.Vec2) dynamo.Vec2 {
	ndcX := 2*pixel.X/window.X - 1
	ndcY := 1 - 2*pixel.Y/window.Y
	return dynamo.Vec2{
		X: c.Center.X + ndcX*c.Size.X/2,
		Y: c.Center.Y + ndcY*c.Size.Y/2,
	}
}

// WorldToPixel is the inverse of PixelToWorld.
func (c *Camera) WorldToPixel(world, window dynamo.Vec2) dynamo.Vec2 {
	ndcX := 2 * (world.X - c.Center.X) / c.Size.X
	ndcY := 2 * (world.Y - c.Center.Y) / c.Size.Y
	return dynamo.Vec2{
		X: (ndcX + 1) * window.X / 2,
		Y: (1 - ndcY) * window.Y / 2,
	}
}

// Contains reports whether a world point lies inside the viewport.
func (c *Camera) Contains(world dynamo.Vec2) bool {
	dx := world.X - c.Center.X
	dy := world.Y - c.Center.Y
	return dx >= -c.Size.X/2 && dx <= c.Size.X/2 && dy >= -c.Size.Y/2 && dy <= c.Size.Y/2
}

// Fit returns a camera centred on the box [min, max] with the given margin
// fraction added on every side. Degenerate boxes get a unit extent.
func Fit(min, max dynamo.Vec2, margin float64) *Camera {
	size := max.Sub(min)
	if size.X <= 0 {
		size.X = 1
	}
	if size.Y <= 0 {
		size.Y = 1
	}
	center := min.Add(max).Scale(0.5)
	return New(center, size.Scale(1+2*margin))
}

// WithAspect returns a copy of c whose width/height ratio is aspect, grown
// along one axis so the whole view stays covered.
func (c *Camera) WithAspect(aspect float64) *Camera {
	out := *c
	if aspect <= 0 || out.Size.Y == 0 {
		return &out
	}
	if out.Size.X/out.Size.Y < aspect {
		out.Size.X = out.Size.Y * aspect
	} else {
		out.Size.Y = out.Size.X / aspect
	}
	return &out
}
