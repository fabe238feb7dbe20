package dynamo

import "math"

// TrigTable provides precomputed sin/cos values for renderers that draw
// many circle and spoke vertices per frame. Linear interpolation between
// entries; not used by the physics.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// 1024 entries is ~0.006 rad resolution, well below a terminal sub-pixel.
var DefaultTrigTable = NewTrigTable(1024)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i], t.cos[i] = math.Sincos(angle)
	}
	return t
}

// SinCos returns interpolated sin and cos of x.
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// Rim returns the point at angle theta on a circle of radius r around c.
func (t *TrigTable) Rim(c Vec2, r, theta float64) Vec2 {
	s, co := t.SinCos(theta)
	return Vec2{c.X + r*co, c.Y + r*s}
}

// SinCos uses the default table.
func SinCos(x float64) (float64, float64) {
	return DefaultTrigTable.SinCos(x)
}
