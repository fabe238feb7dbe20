package sim

import (
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
)

type Metric interface {
	Name() string
	Observe(s gondola.Snapshot, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s gondola.Snapshot, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      20.0,
		ValidateState: true,
	}
}

// Sample is one recorded body state.
type Sample struct {
	Time     float64
	Param    float64
	Position dynamo.Vec2
	Heading  float64
	Speed    float64
	Force    float64
	Phase    gondola.Phase
}

func sampleOf(s gondola.Snapshot, t float64) Sample {
	return Sample{
		Time:     t,
		Param:    s.Param,
		Position: s.Position,
		Heading:  s.Heading,
		Speed:    s.Speed,
		Force:    s.Force,
		Phase:    s.Phase,
	}
}

type Result struct {
	Track      string
	Points     []dynamo.Vec2
	Samples    []Sample
	Phase      gondola.Phase
	Cause      gondola.FallCause
	StepsTaken int
	Elapsed    float64
	Metrics    map[string]float64
	Errors     []error
}

// Trajectory returns the recorded body positions.
func (r *Result) Trajectory() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Position
	}
	return out
}
