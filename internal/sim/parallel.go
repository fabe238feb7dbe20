package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gondola/internal/track"
)

// Batch rides several independent tracks concurrently. Each track gets its
// own Simulator and metric set; nothing is shared between goroutines.
type Batch struct {
	tracks     []*track.Track
	newMetrics func() []Metric
}

func NewBatch(tracks []*track.Track, newMetrics func() []Metric) *Batch {
	return &Batch{tracks: tracks, newMetrics: newMetrics}
}

// Run returns results in track order, or the first error any member
// returned.
func (b *Batch) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(b.tracks))
	errs := make([]error, len(b.tracks))

	var wg sync.WaitGroup
	for i, tr := range b.tracks {
		wg.Add(1)
		go func(idx int, tr *track.Track) {
			defer wg.Done()

			s := New(tr, cfg.Dt)
			if b.newMetrics != nil {
				for _, m := range b.newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, tr)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
