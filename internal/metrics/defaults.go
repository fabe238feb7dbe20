// Package metrics provides run summaries computed from body snapshots.
package metrics

import (
	"github.com/san-kum/gondola/internal/sim"
	"github.com/san-kum/gondola/internal/track"
)

// Defaults returns the metric set the CLI attaches to every run.
func Defaults(tr *track.Track) []sim.Metric {
	first, last := tr.KnotRange()
	return []sim.Metric{
		NewMaxSpeed(),
		NewMeanSpeed(),
		NewPathLength(),
		NewContactMargin(),
		NewProgress(first, last),
	}
}
