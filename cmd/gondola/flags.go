package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/gondola/internal/config"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, the preset, the config file and finally
// the flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if preset != "" && len(loaded.Track.Points) == 0 {
			loaded.Track = cfg.Track
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("points") {
		pts, err := parsePoints(points)
		if err != nil {
			return nil, err
		}
		cfg.SetPoints(pts)
		if preset == "" {
			cfg.Track.Name = "custom"
		}
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parsePoints reads "x,y;x,y;..." into points. Empty entries are skipped.
func parsePoints(s string) ([]dynamo.Vec2, error) {
	var pts []dynamo.Vec2
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("point %q: want x,y", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", pair, err)
		}
		pts = append(pts, dynamo.V(x, y))
	}
	return pts, nil
}
