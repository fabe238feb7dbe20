// Package gui is the desktop window: a raylib canvas where clicks add
// control points and the body rides the finished track in real time.
//
// The window itself needs cgo and is only built with -tags gui. Session
// holds everything the window does apart from drawing and input polling.
package gui

import (
	"errors"
	"math"

	"github.com/san-kum/gondola/internal/camera"
	"github.com/san-kum/gondola/internal/config"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/sim"
)

// ErrUnavailable is returned by Run in builds without the gui tag.
var ErrUnavailable = errors.New("gui: built without the gui tag (rebuild with -tags gui)")

const (
	telemetryCapacity = 200
	spokes            = 6
	// frames longer than this are clipped, e.g. while the window is dragged
	maxFrame = 0.1
)

type Session struct {
	sim       *sim.Simulator
	cam       *camera.Camera
	window    dynamo.Vec2
	clock     float64
	telemetry []float64
}

func NewSession(cfg *config.Config) *Session {
	return &Session{
		sim:       sim.New(cfg.BuildTrack(), cfg.Dt),
		cam:       cfg.Camera(),
		window:    dynamo.V(float64(cfg.Window.Width), float64(cfg.Window.Height)),
		telemetry: make([]float64, 0, telemetryCapacity),
	}
}

func (s *Session) Simulator() *sim.Simulator { return s.sim }
func (s *Session) Window() dynamo.Vec2       { return s.window }
func (s *Session) Clock() float64            { return s.clock }
func (s *Session) Telemetry() []float64      { return s.telemetry }

// Click adds a control point under the window pixel (x, y).
func (s *Session) Click(x, y float64) dynamo.Vec2 {
	p := s.cam.PixelToWorld(dynamo.V(x, y), s.window)
	s.sim.AddControlPoint(p)
	return p
}

// Start is a no-op when the body is already riding or has fallen.
func (s *Session) Start() error {
	return s.sim.Start()
}

func (s *Session) Reset() {
	s.sim.Reset()
	s.clock = 0
	s.telemetry = s.telemetry[:0]
}

// Frame advances the simulator over the elapsed wall time of one frame.
func (s *Session) Frame(elapsed float64) {
	if s.sim.Body().Phase() != gondola.Running || elapsed <= 0 {
		return
	}
	elapsed = math.Min(elapsed, maxFrame)
	s.sim.Advance(s.clock, s.clock+elapsed)
	s.clock += elapsed

	s.telemetry = append(s.telemetry, s.sim.Body().Speed())
	if len(s.telemetry) > telemetryCapacity {
		s.telemetry = s.telemetry[1:]
	}
}

// CurvePixels returns the track samples in window pixels.
func (s *Session) CurvePixels() []dynamo.Vec2 {
	pts := s.sim.Track().Samples()
	for i, p := range pts {
		pts[i] = s.cam.WorldToPixel(p, s.window)
	}
	return pts
}

// PointPixels returns the control points in window pixels.
func (s *Session) PointPixels() []dynamo.Vec2 {
	pts := s.sim.Track().ControlPoints()
	for i, p := range pts {
		pts[i] = s.cam.WorldToPixel(p, s.window)
	}
	return pts
}

// Wheel returns the body centre, its radius in pixels and the rim ends of
// its spokes. ok is false while the body is Idle or its state is not finite.
func (s *Session) Wheel() (center dynamo.Vec2, radius float64, rim []dynamo.Vec2, ok bool) {
	body := s.sim.Body()
	if body.Phase() == gondola.Idle || !body.Position().IsValid() {
		return dynamo.Vec2{}, 0, nil, false
	}

	pos := body.Position()
	center = s.cam.WorldToPixel(pos, s.window)
	radius = gondola.Radius / s.cam.Size.X * s.window.X
	rim = make([]dynamo.Vec2, spokes)
	for i := range rim {
		theta := body.Heading() + float64(i)*2*math.Pi/spokes
		rim[i] = s.cam.WorldToPixel(dynamo.DefaultTrigTable.Rim(pos, gondola.Radius, theta), s.window)
	}
	return center, radius, rim, true
}
