package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/sim"
	"github.com/san-kum/gondola/internal/track"
)

func valleyResult(t *testing.T) (sim.Config, *sim.Result) {
	t.Helper()
	tr := track.FromPoints("valley", []dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 2, Y: 0}})
	s := sim.New(tr, 0.01)
	cfg := sim.DefaultConfig()
	res, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := valleyResult(t)
	res.Metrics = map[string]float64{"max_speed": 6.3}

	runID, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Track != "valley" {
		t.Errorf("expected track valley, got %s", meta.Track)
	}
	if meta.Phase != "fallen" || meta.Cause != "ran out of track" {
		t.Errorf("unexpected outcome %s / %s", meta.Phase, meta.Cause)
	}
	if meta.Steps != res.StepsTaken {
		t.Errorf("expected %d steps, got %d", res.StepsTaken, meta.Steps)
	}
	if meta.Metrics["max_speed"] != 6.3 {
		t.Errorf("expected max_speed 6.3, got %f", meta.Metrics["max_speed"])
	}
	if diff := cmp.Diff(res.Points, meta.ControlPoints()); diff != "" {
		t.Errorf("control points mismatch (-want +got):\n%s", diff)
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if diff := cmp.Diff(res.Samples, samples); diff != "" {
		t.Errorf("trajectory mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStoreKeepsNonFiniteSamples(t *testing.T) {
	st := New(t.TempDir())

	res := &sim.Result{
		Track: "rising",
		Samples: []sim.Sample{
			{Time: 0, Param: 0.01, Phase: gondola.Running},
			{Time: 0.01, Param: math.NaN(), Speed: math.NaN(), Phase: gondola.Running},
		},
		Metrics: map[string]float64{"mean_speed": math.NaN(), "progress": 0},
		Errors:  []error{dynamo.ErrInvalidState},
	}

	runID, err := st.Save(sim.DefaultConfig(), res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := meta.Metrics["mean_speed"]; ok {
		t.Error("non-finite metric should not be stored")
	}
	if _, ok := meta.Metrics["progress"]; !ok {
		t.Error("finite metric missing")
	}
	if len(meta.Errors) != 1 {
		t.Errorf("expected 1 stored error, got %d", len(meta.Errors))
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if diff := cmp.Diff(res.Samples, samples, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("trajectory mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, res := valleyResult(t)
	first, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Errorf("run ids collide: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	cfg, res := valleyResult(t)
	runID, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "trajectory.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadTrajectory("nope"); err == nil {
		t.Error("expected error for missing trajectory")
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "r1", Track: "t", Metrics: map[string]float64{}}
	samples := []sim.Sample{
		{Time: 0, Param: 0.01, Position: dynamo.V(1, 2), Speed: 3, Phase: gondola.Running},
		{Time: 0.01, Param: math.NaN(), Phase: gondola.Running},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, samples); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "r1" {
		t.Errorf("expected run id r1, got %s", got.Run.ID)
	}
	want := []ExportSample{{Param: 0.01, X: 1, Y: 2, Speed: 3, Phase: "running"}}
	if diff := cmp.Diff(want, got.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}
