package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gondola/internal/camera"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/sim"
	"github.com/san-kum/gondola/internal/track"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 0.01
	DefaultDuration     = 20.0
	DefaultViewport     = 20.0
	DefaultWindowWidth  = 600
	DefaultWindowHeight = 600
	DefaultFPS          = 60
)

type Config struct {
	Track         TrackConfig    `yaml:"track"`
	Dt            float64        `yaml:"dt"`
	Duration      float64        `yaml:"duration"`
	ValidateState bool           `yaml:"validate_state"`
	Viewport      ViewportConfig `yaml:"viewport"`
	Window        WindowConfig   `yaml:"window"`
	FPS           int            `yaml:"fps"`
}

type TrackConfig struct {
	Name   string        `yaml:"name"`
	Points []PointConfig `yaml:"points"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ViewportConfig struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Track:         TrackConfig{Name: "custom"},
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		ValidateState: true,
		Viewport: ViewportConfig{
			Width:  DefaultViewport,
			Height: DefaultViewport,
		},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		FPS: DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must have a positive size, got %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window must have a positive size, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}

func (c *Config) Points() []dynamo.Vec2 {
	pts := make([]dynamo.Vec2, len(c.Track.Points))
	for i, p := range c.Track.Points {
		pts[i] = dynamo.V(p.X, p.Y)
	}
	return pts
}

func (c *Config) SetPoints(pts []dynamo.Vec2) {
	c.Track.Points = make([]PointConfig, len(pts))
	for i, p := range pts {
		c.Track.Points[i] = PointConfig{X: p.X, Y: p.Y}
	}
}

// BuildTrack returns a new track holding the configured points in order.
func (c *Config) BuildTrack() *track.Track {
	return track.FromPoints(c.Track.Name, c.Points())
}

func (c *Config) Camera() *camera.Camera {
	return camera.New(
		dynamo.V(c.Viewport.CenterX, c.Viewport.CenterY),
		dynamo.V(c.Viewport.Width, c.Viewport.Height),
	)
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ValidateState: c.ValidateState,
	}
}
