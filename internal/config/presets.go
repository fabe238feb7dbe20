package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/gondola/internal/dynamo"
)

// Presets are named tracks inside the default 20x20 viewport.
var Presets = map[string][]PointConfig{
	"valley": {
		{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 2, Y: 0},
	},
	"slope": {
		{X: -6, Y: 6}, {X: -3, Y: 3}, {X: 0, Y: 0}, {X: 3, Y: -3},
	},
	"crest": {
		{X: -8, Y: 8}, {X: -7, Y: -2}, {X: -6, Y: -1}, {X: -5, Y: -2},
	},
	"overhang": {
		{X: 2, Y: 2}, {X: 1, Y: 1}, {X: 0, Y: 0},
	},
	"wave": {
		{X: -9, Y: 8}, {X: -6, Y: -4}, {X: -3, Y: -6}, {X: 0, Y: -3},
		{X: 3, Y: -6}, {X: 6, Y: -7}, {X: 9, Y: -5},
	},
}

// GetPreset returns a default config whose track is the named preset.
func GetPreset(name string) (*Config, error) {
	pts, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	cfg := DefaultConfig()
	cfg.Track.Name = name
	cfg.Track.Points = append([]PointConfig(nil), pts...)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
