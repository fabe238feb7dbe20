// Package sim owns one track and one riding body and drives the body in
// fixed sub-steps, either from an external clock (Advance) or headless
// (Run).
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/track"
)

type Simulator struct {
	track     *track.Track
	body      *gondola.Body
	dt        float64
	metrics   []Metric
	observers []Observer
}

// New creates a simulator on tr with sub-step dt. A non-positive dt falls
// back to the default.
func New(tr *track.Track, dt float64) *Simulator {
	if dt <= 0 {
		dt = DefaultConfig().Dt
	}
	return &Simulator{
		track:     tr,
		body:      gondola.NewBody(tr),
		dt:        dt,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Track() *track.Track { return s.track }
func (s *Simulator) Body() *gondola.Body { return s.body }
func (s *Simulator) Dt() float64         { return s.dt }

func (s *Simulator) AddControlPoint(p dynamo.Vec2) float64 {
	return s.track.AddControlPoint(p)
}

// Start starts the body. Starting a body that is not Idle is a no-op.
// An Idle body that cannot start returns ErrNoTangent.
func (s *Simulator) Start() error {
	if s.track.Len() < 2 {
		return dynamo.ErrTrackTooShort
	}
	if s.body.Phase() == gondola.Idle && !s.body.Start() {
		return dynamo.ErrNoTangent
	}
	return nil
}

// Reset replaces the body with a fresh Idle one on the same track.
func (s *Simulator) Reset() {
	s.body = gondola.NewBody(s.track)
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Advance steps the body across [startTime, endTime) in sub-steps of dt,
// clipping the last one to the interval end.
func (s *Simulator) Advance(startTime, endTime float64) {
	for t := startTime; t < endTime; t += s.dt {
		h := math.Min(s.dt, endTime-t)
		s.body.Step(h)
		s.notify(s.body.Snapshot(), t+h)
	}
}

func (s *Simulator) notify(snap gondola.Snapshot, t float64) {
	for _, m := range s.metrics {
		m.Observe(snap, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(snap, t)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Run rides a fresh body from the start of the track until it falls, the
// duration elapses or ctx is done.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	s.dt = cfg.Dt
	s.Reset()
	if err := s.Start(); err != nil {
		return nil, err
	}

	steps := int(math.Ceil(cfg.Duration/cfg.Dt - 1e-9))
	result := &Result{
		Track:   s.track.Name(),
		Points:  s.track.ControlPoints(),
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	result.Samples = append(result.Samples, sampleOf(s.body.Snapshot(), 0))

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = errors.Join(dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		s.body.Step(cfg.Dt)
		t := float64(i+1) * cfg.Dt
		snap := s.body.Snapshot()
		s.notify(snap, t)

		result.StepsTaken++
		result.Elapsed = t
		result.Samples = append(result.Samples, sampleOf(snap, t))

		if cfg.ValidateState && !snap.IsValid() {
			result.Errors = append(result.Errors, dynamo.SimError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState})
			break
		}
		if snap.Phase == gondola.Fallen {
			break
		}
	}

	result.Phase = s.body.Phase()
	result.Cause = s.body.Cause()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

// RunWithCallback rides a fresh body and calls fn after every step; a
// false return stops the ride.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(gondola.Snapshot, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	s.dt = cfg.Dt
	s.Reset()
	if err := s.Start(); err != nil {
		return err
	}

	for t := 0.0; t < cfg.Duration; t += cfg.Dt {
		select {
		case <-ctx.Done():
			return errors.Join(dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		s.body.Step(cfg.Dt)
		snap := s.body.Snapshot()
		s.notify(snap, t+cfg.Dt)

		if !fn(snap, t+cfg.Dt) {
			return nil
		}
		if cfg.ValidateState && !snap.IsValid() {
			return fmt.Errorf("t=%.4f: %w", t+cfg.Dt, dynamo.ErrInvalidState)
		}
		if snap.Phase == gondola.Fallen {
			return nil
		}
	}

	return nil
}
