// Package automation runs scripted batches of rides: YAML scenarios and
// Monte Carlo trials over jittered control points.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/gondola/internal/config"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/metrics"
	"github.com/san-kum/gondola/internal/sim"
	"github.com/san-kum/gondola/internal/track"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of rides
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep rides one track. Preset and Points are exclusive; zero Dt
// and Duration take the defaults.
type ScenarioStep struct {
	Preset   string               `yaml:"preset"`
	Name     string               `yaml:"name"`
	Points   []config.PointConfig `yaml:"points"`
	Dt       float64              `yaml:"dt"`
	Duration float64              `yaml:"duration"`
	SaveAs   string               `yaml:"save_as"`
}

// Saver persists a finished ride; storage.Store satisfies it.
type Saver interface {
	Save(cfg sim.Config, result *sim.Result) (string, error)
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

func (st ScenarioStep) build() (*track.Track, sim.Config, error) {
	cfg := sim.DefaultConfig()
	if st.Dt > 0 {
		cfg.Dt = st.Dt
	}
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}

	switch {
	case st.Preset != "" && len(st.Points) > 0:
		return nil, cfg, fmt.Errorf("preset %q and explicit points are exclusive", st.Preset)
	case st.Preset != "":
		p, err := config.GetPreset(st.Preset)
		if err != nil {
			return nil, cfg, err
		}
		tr := p.BuildTrack()
		return tr, cfg, nil
	default:
		name := st.Name
		if name == "" {
			name = "custom"
		}
		c := config.DefaultConfig()
		c.Track = config.TrackConfig{Name: name, Points: st.Points}
		return c.BuildTrack(), cfg, nil
	}
}

// RunScenario rides every step in order. Steps with SaveAs set are stored
// through saver when it is not nil. Progress goes to out.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, out io.Writer) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		tr, cfg, err := step.build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), tr.Name())

		s := sim.New(tr, cfg.Dt)
		for _, m := range metrics.Defaults(tr) {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		if step.SaveAs != "" && saver != nil {
			result.Track = step.SaveAs
			if _, err := saver.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// MonteCarloConfig jitters every control point of a base track uniformly
// by up to Perturbation on each axis.
type MonteCarloConfig struct {
	BasePoints   []dynamo.Vec2
	Perturbation float64
	NumTrials    int
	Duration     float64
	Dt           float64
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Points  []dynamo.Vec2
	Phase   gondola.Phase
	Cause   gondola.FallCause
	Steps   int
	// Invalid is set when the ride ended on a non-finite state.
	Invalid bool
}

// RunMonteCarlo rides NumTrials jittered copies of the base track. A zero
// seed uses the clock.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if len(cfg.BasePoints) < 2 {
		return nil, dynamo.ErrTrackTooShort
	}

	simCfg := sim.DefaultConfig()
	if cfg.Dt > 0 {
		simCfg.Dt = cfg.Dt
	}
	if cfg.Duration > 0 {
		simCfg.Duration = cfg.Duration
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		pts := make([]dynamo.Vec2, len(cfg.BasePoints))
		for i, p := range cfg.BasePoints {
			pts[i] = p.Add(dynamo.V(
				(rng.Float64()-0.5)*2*cfg.Perturbation,
				(rng.Float64()-0.5)*2*cfg.Perturbation,
			))
		}

		s := sim.New(track.FromPoints(fmt.Sprintf("trial_%d", trial), pts), simCfg.Dt)
		result, err := s.Run(ctx, simCfg)
		if errors.Is(err, dynamo.ErrNoTangent) {
			results = append(results, MonteCarloResult{TrialID: trial, Points: pts, Phase: gondola.Idle, Invalid: true})
			continue
		}
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Points:  pts,
			Phase:   result.Phase,
			Cause:   result.Cause,
			Steps:   result.StepsTaken,
			Invalid: len(result.Errors) > 0,
		})
	}

	return results, nil
}

// MonteCarloStats counts how the trials ended.
func MonteCarloStats(results []MonteCarloResult) (ranOut, lostContact, other int) {
	for _, r := range results {
		switch {
		case r.Invalid:
			other++
		case r.Cause == gondola.RanOut:
			ranOut++
		case r.Cause == gondola.LostContact:
			lostContact++
		default:
			other++
		}
	}
	return
}
