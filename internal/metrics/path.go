package metrics

import (
	"math"

	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
)

// PathLength is the world distance travelled by the body centre.
type PathLength struct {
	name   string
	last   dynamo.Vec2
	seen   bool
	length float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(s gondola.Snapshot, t float64) {
	if !s.Position.IsValid() {
		return
	}
	if p.seen {
		p.length += p.last.Distance(s.Position)
	}
	p.last = s.Position
	p.seen = true
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.last = dynamo.Vec2{}
	p.seen = false
	p.length = 0
}

// Progress is the fraction of the knot range covered, clamped to [0, 1].
type Progress struct {
	name      string
	first     float64
	last      float64
	furthest  float64
	hasSample bool
}

func NewProgress(first, last float64) *Progress {
	return &Progress{name: "progress", first: first, last: last}
}

func (p *Progress) Name() string { return p.name }

func (p *Progress) Observe(s gondola.Snapshot, t float64) {
	if math.IsNaN(s.Param) {
		return
	}
	if !p.hasSample || s.Param > p.furthest {
		p.furthest = s.Param
		p.hasSample = true
	}
}

func (p *Progress) Value() float64 {
	if !p.hasSample || p.last <= p.first {
		return 0
	}
	f := (p.furthest - p.first) / (p.last - p.first)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (p *Progress) Reset() {
	p.furthest = 0
	p.hasSample = false
}
