package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gondola/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Pixels returns the canvas size in sub-pixels.
func (c *Canvas) Pixels() dynamo.Vec2 {
	return dynamo.V(float64(c.Width*2), float64(c.Height*4))
}

// Set sets the sub-pixel at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r sub-pixels as a closed polygon.
func (c *Canvas) DrawCircle(cx, cy int, r float64) {
	if r < 0.5 {
		c.Set(cx, cy)
		return
	}

	segments := int(math.Max(8, math.Ceil(2*math.Pi*r/2)))
	center := dynamo.V(float64(cx), float64(cy))
	prev := dynamo.DefaultTrigTable.Rim(center, r, 0)
	for i := 1; i <= segments; i++ {
		next := dynamo.DefaultTrigTable.Rim(center, r, 2*math.Pi*float64(i)/float64(segments))
		c.DrawLine(round(prev.X), round(prev.Y), round(next.X), round(next.Y))
		prev = next
	}
}

// DrawPolyline joins consecutive points. Pairs with a non-finite end are
// skipped.
func (c *Canvas) DrawPolyline(pts []dynamo.Vec2) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if !a.IsValid() || !b.IsValid() {
			continue
		}
		c.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// round clamps to a range that keeps Bresenham loops short for points far
// outside the canvas.
func round(v float64) int {
	const limit = 1 << 16
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return int(math.Round(v))
}
