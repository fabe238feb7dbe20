package metrics

import (
	"math"

	"github.com/san-kum/gondola/internal/gondola"
)

// ContactMargin is the smallest radial force seen. A negative value means
// the body lost contact on that step.
type ContactMargin struct {
	name    string
	min     float64
	samples int
}

func NewContactMargin() *ContactMargin {
	return &ContactMargin{name: "contact_margin", min: math.Inf(1)}
}

func (c *ContactMargin) Name() string { return c.name }

func (c *ContactMargin) Observe(s gondola.Snapshot, t float64) {
	if math.IsNaN(s.Force) {
		return
	}
	if s.Phase == gondola.Fallen && s.Cause != gondola.LostContact {
		return
	}
	c.min = math.Min(c.min, s.Force)
	c.samples++
}

func (c *ContactMargin) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.min
}

func (c *ContactMargin) Reset() {
	c.min = math.Inf(1)
	c.samples = 0
}
