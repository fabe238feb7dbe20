package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gondola/internal/automation"
	"github.com/san-kum/gondola/internal/config"
	"github.com/san-kum/gondola/internal/dynamo"
	"github.com/san-kum/gondola/internal/export"
	"github.com/san-kum/gondola/internal/gondola"
	"github.com/san-kum/gondola/internal/gui"
	"github.com/san-kum/gondola/internal/metrics"
	"github.com/san-kum/gondola/internal/sim"
	"github.com/san-kum/gondola/internal/storage"
	"github.com/san-kum/gondola/internal/track"
	"github.com/san-kum/gondola/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	configFile string
	preset     string
	points     string
	frameRate  int
	svgWidth   int
	svgHeight  int
	trials     int
	jitter     float64
	seed       int64
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// main registers the commands and runs the root command. With no
// subcommand it opens the terminal track picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gondola",
		Short: "spline track builder and riding-body simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunInteractive(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gondola", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "build and ride a track in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunEditor(cfg)
		},
	}
	editCmd.Flags().StringVar(&preset, "preset", "", "start from a track preset")
	editCmd.Flags().StringVar(&points, "points", "", `start from points "x,y;x,y;..."`)
	editCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sub-step")
	editCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "build and ride a track in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	guiCmd.Flags().StringVar(&preset, "preset", "", "start from a track preset")
	guiCmd.Flags().StringVar(&points, "points", "", `start from points "x,y;x,y;..."`)
	guiCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sub-step")
	guiCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "ride a track headless and store the result",
		RunE:  runRide,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "track preset")
	runCmd.Flags().StringVar(&points, "points", "", `track points "x,y;x,y;..."`)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sub-step")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "ride several presets concurrently and compare outcomes",
		RunE:  compareTracks,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sub-step")
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot speed and height of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "export track and trajectory to SVG",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list track presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPOINTS")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%d\n", name, len(config.Presets[name]))
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "gondola.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of rides",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "ride jittered copies of a track and count outcomes",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&preset, "preset", "", "track preset")
	monteCarloCmd.Flags().StringVar(&points, "points", "", `track points "x,y;x,y;..."`)
	monteCarloCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sub-step")
	monteCarloCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&jitter, "jitter", 0.1, "maximum control point offset per axis")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	rootCmd.AddCommand(editCmd, guiCmd, runCmd, compareCmd, scenarioCmd, monteCarloCmd, listCmd, plotCmd, exportSVGCmd, exportJSONCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRide(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	tr := cfg.BuildTrack()
	if tr.Len() < 2 {
		return fmt.Errorf("track %q has %d points: use --preset, --points or --config", tr.Name(), tr.Len())
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(tr, cfg.Dt)
	for _, m := range metrics.Defaults(tr) {
		s.AddMetric(m)
	}

	simCfg := cfg.SimConfig()
	fmt.Printf("riding %s (%d points, dt=%.4f)...\n", tr.Name(), tr.Len(), simCfg.Dt)
	start := time.Now()

	result, err := s.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	printSummary(result)

	return nil
}

func printSummary(result *sim.Result) {
	fmt.Println(titleStyle.Render(strings.ToUpper(result.Track)))

	outcome := goodStyle.Render(result.Phase.String())
	if result.Cause != gondola.NotFallen {
		outcome = badStyle.Render(result.Phase.String()) + " (" + result.Cause.String() + ")"
	}
	fmt.Printf("%s %s\n", labelStyle.Render("outcome:"), outcome)
	fmt.Printf("%s %d (t=%.2fs)\n", labelStyle.Render("steps:  "), result.StepsTaken, result.Elapsed)

	for _, e := range result.Errors {
		fmt.Printf("%s %v\n", badStyle.Render("warning:"), e)
	}

	if len(result.Metrics) > 0 {
		fmt.Println(labelStyle.Render("\nmetrics:"))
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
	}
}

func compareTracks(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	tracks := make([]*track.Track, len(names))
	for i, name := range names {
		cfg, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		tracks[i] = cfg.BuildTrack()
	}

	simCfg := sim.DefaultConfig()
	simCfg.Dt = dt
	simCfg.Duration = duration

	batch := sim.NewBatch(tracks, func() []sim.Metric {
		return []sim.Metric{metrics.NewMaxSpeed(), metrics.NewPathLength(), metrics.NewContactMargin()}
	})

	fmt.Printf("comparing %d tracks (dt=%.4f, duration=%.1fs)\n\n", len(tracks), dt, duration)
	start := time.Now()
	results, err := batch.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tOUTCOME\tSTEPS\tTIME\tMAX_SPEED\tDISTANCE\tMIN_FORCE")
	for _, r := range results {
		outcome := r.Phase.String()
		if r.Cause != gondola.NotFallen {
			outcome = r.Cause.String()
		}
		if len(r.Errors) > 0 {
			outcome = "invalid state"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.3f\t%.3f\t%.3f\n",
			r.Track,
			outcome,
			r.StepsTaken,
			r.Elapsed,
			r.Metrics["max_speed"],
			r.Metrics["path_length"],
			r.Metrics["contact_margin"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if sc.Description != "" {
		fmt.Printf("%s: %s\n", sc.Name, sc.Description)
	}
	results, err := automation.RunScenario(context.Background(), sc, st, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	for _, r := range results {
		printSummary(r)
		fmt.Println()
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		BasePoints:   cfg.Points(),
		Perturbation: jitter,
		NumTrials:    trials,
		Duration:     cfg.Duration,
		Dt:           cfg.Dt,
		Seed:         seed,
	}

	fmt.Printf("riding %d jittered copies of %s (jitter=%.3f)...\n", trials, cfg.Track.Name, jitter)
	results, err := automation.RunMonteCarlo(context.Background(), mc)
	if err != nil {
		return err
	}

	ranOut, lostContact, other := automation.MonteCarloStats(results)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OUTCOME\tTRIALS\tSHARE")
	for _, row := range []struct {
		name  string
		count int
	}{
		{gondola.RanOut.String(), ranOut},
		{gondola.LostContact.String(), lostContact},
		{"other", other},
	} {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", row.name, row.count, 100*float64(row.count)/float64(max(len(results), 1)))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTRACK\tTIME\tPOINTS\tDT\tOUTCOME\tSTEPS")

	for _, run := range runs {
		outcome := run.Phase
		if run.Cause != "none" {
			outcome = run.Cause
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Track,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Points),
			run.Dt,
			outcome,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	speed := make([]float64, 0, len(samples))
	height := make([]float64, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.Speed) || math.IsNaN(s.Position.Y) {
			continue
		}
		speed = append(speed, s.Speed)
		height = append(height, s.Position.Y)
	}

	if len(speed) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("track: %s\n", meta.Track)
	fmt.Printf("samples: %d\n\n", len(speed))

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"speed vs time", speed},
		{"height vs time", height},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := runID + ".svg"
	if len(args) > 1 {
		path = args[1]
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	pts := meta.ControlPoints()
	tr := track.FromPoints(meta.Track, pts)
	trajectory := make([]dynamo.Vec2, len(samples))
	for i, s := range samples {
		trajectory[i] = s.Position
	}

	svg := export.TrackSVG(pts, tr.Samples(), trajectory, svgWidth, svgHeight)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, samples)
}
