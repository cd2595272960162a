package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pbdsim/internal/analysis"
	"github.com/san-kum/pbdsim/internal/config"
	"github.com/san-kum/pbdsim/internal/export"
	"github.com/san-kum/pbdsim/internal/gui"
	"github.com/san-kum/pbdsim/internal/metrics"
	"github.com/san-kum/pbdsim/internal/sim"
	"github.com/san-kum/pbdsim/internal/store"
	"github.com/san-kum/pbdsim/internal/tui"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	configFile string
	snapshot   string
	noStore    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pbdsim",
		Short: "position based particle dynamics lab",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to interactive GUI mode when no command given
			gui.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pbdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (0 = scenario default)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = scenario default)")
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&snapshot, "snapshot", "", "write final frame as svg")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "skip saving the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [out.svg]",
		Short: "export kinetic energy series to svg",
		Args:  cobra.ExactArgs(2),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark stepping throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal live view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run()
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "3d live view",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				gui.Run(args[0])
				return
			}
			gui.RunInteractive()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, benchCmd, analyzeCmd, presetsCmd, tuiCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScenario(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := "dam-break"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = configFile
	} else {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown scenario: %s (available: %v)", name, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Run.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		cfg.World.Seed = seed
	}
	return cfg, name, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	sys, err := cfg.Build()
	if err != nil {
		return err
	}
	defer sys.Destroy()

	runner := sim.New(sys)
	runner.AddMetric(metrics.NewKineticEnergy())
	runner.AddMetric(metrics.NewConstraintResidual())
	runner.AddMetric(metrics.NewBoundsViolations())
	runner.AddMetric(metrics.NewDroppedParticles())

	fmt.Printf("running %s with %d particles...\n", name, sys.NumParticles())
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{
		Dt:            cfg.Run.Dt,
		Duration:      cfg.Run.Duration,
		ValidateState: cfg.Run.Validate,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed %d frames in %v\n", result.FramesTaken, elapsed)
	for _, runErr := range result.Errors {
		fmt.Printf("warning: %v\n", runErr)
	}

	fmt.Println("\nmetrics:")
	for metric, sum := range result.Summaries {
		fmt.Printf("  %s: mean=%.6f min=%.6f max=%.6f\n", metric, sum.Mean, sum.Min, sum.Max)
	}

	if snapshot != "" {
		svg, err := export.SnapshotSVG(sys, 800, 600)
		if err != nil {
			return err
		}
		if err := os.WriteFile(snapshot, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", snapshot)
	}

	if !noStore {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, cfg.Run.Dt, cfg.Run.Duration, cfg.World.Seed, sys.NumParticles(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tFRAMES\tPARTICLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
			run.Particles,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(rows))

	series := []struct {
		caption string
		pick    func(store.FrameRow) float64
	}{
		{"kinetic energy", func(r store.FrameRow) float64 { return r.Kinetic }},
		{"constraint residual", func(r store.FrameRow) float64 { return r.Residual }},
		{"out of bounds", func(r store.FrameRow) float64 { return r.OutOfBounds }},
	}

	for _, s := range series {
		data := make([]float64, len(rows))
		for i, row := range rows {
			data[i] = s.pick(row)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	scenarios := config.ListPresets()
	if len(args) > 0 {
		scenarios = []string{args[0]}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPARTICLES\tFRAMES\tELAPSED\tFRAMES/SEC")

	const frames = 120
	for _, name := range scenarios {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown scenario: %s", name)
		}
		sys, err := cfg.Build()
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < frames; i++ {
			if err := sys.Step(float32(dt)); err != nil {
				sys.Destroy()
				return err
			}
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			name, sys.NumParticles(), frames, elapsed.Round(time.Millisecond),
			float64(frames)/elapsed.Seconds())
		sys.Destroy()
	}

	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(rows) < 4 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	data := make([]float64, len(rows))
	for i, row := range rows {
		data[i] = row.Kinetic
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (kinetic energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(ps, 1.0/meta.Dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	rows, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("not enough data to export")
	}

	times := make([]float64, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		times[i] = row.Time
		values[i] = row.Kinetic
	}

	svg := export.SeriesSVG(times, values, 800, 400, "#00ff88")
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported: %s\n", args[1])
	return nil
}
