package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"time", "param", "x", "y", "heading", "speed", "force", "phase"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Track     string             `json:"track"`
	Points    []Point            `json:"points"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Phase     string             `json:"phase"`
	Cause     string             `json:"cause"`
	Steps     int                `json:"steps"`
	Elapsed   float64            `json:"elapsed"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ControlPoints returns the stored track points as vectors.
func (m *RunMetadata) ControlPoints() []dynamo.Vec2 {
	pts := make([]dynamo.Vec2, len(m.Points))
	for i, p := range m.Points {
		pts[i] = dynamo.V(p.X, p.Y)
	}
	return pts
}

// Save writes metadata.json and trajectory.csv into a new run directory and
// returns the run id.
func (s *Store) Save(cfg sim.Config, result *sim.Result) (string, error) {
	if result == nil {
		return "", errors.New("nil result")
	}

	now := time.Now()
	runID, runDir, err := s.newRunDir(result.Track, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Track:     result.Track,
		Points:    make([]Point, len(result.Points)),
		Timestamp: now,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Phase:     result.Phase.String(),
		Cause:     result.Cause.String(),
		Steps:     result.StepsTaken,
		Elapsed:   result.Elapsed,
		Metrics:   make(map[string]float64, len(result.Metrics)),
	}
	for i, p := range result.Points {
		meta.Points[i] = Point{X: p.X, Y: p.Y}
	}
	// encoding/json rejects NaN and Inf
	for name, v := range result.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		meta.Metrics[name] = v
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(trackName string, now time.Time) (string, string, error) {
	if trackName == "" {
		trackName = "track"
	}
	base := fmt.Sprintf("%s_%d", trackName, now.Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if err := s.Init(); err != nil {
				return "", "", err
			}
			continue
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrajectory(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			formatFloat(smp.Time),
			formatFloat(smp.Param),
			formatFloat(smp.Position.X),
			formatFloat(smp.Position.Y),
			formatFloat(smp.Heading),
			formatFloat(smp.Speed),
			formatFloat(smp.Force),
			strconv.Itoa(int(smp.Phase)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		var vals [7]float64
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		phase, err := strconv.Atoi(rec[7])
		if err != nil {
			return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
		}

		samples = append(samples, sim.Sample{
			Time:     vals[0],
			Param:    vals[1],
			Position: dynamo.V(vals[2], vals[3]),
			Heading:  vals[4],
			Speed:    vals[5],
			Force:    vals[6],
			Phase:    gondola.Phase(phase),
		})
	}

	return samples, nil
}
