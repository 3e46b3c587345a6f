package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/stride/internal/config"
	"github.com/san-kum/stride/internal/experiment"
	"github.com/san-kum/stride/internal/export"
	"github.com/san-kum/stride/internal/integrators"
	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/logging"
	"github.com/san-kum/stride/internal/scenario"
	"github.com/san-kum/stride/internal/sim"
	"github.com/san-kum/stride/internal/storage"
	"github.com/san-kum/stride/internal/viz"
	"github.com/san-kum/stride/internal/world"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	dt         float64
	duration   float64
	integrator string
	configFile string
	preset     string
	inputFile  string
	cameraYaw  float64
	// locomotion overrides
	maxSpeed   float64
	maxAccel   float64
	jumpHeight float64
	airJumps   int
	groundDeg  float64
	probe      float64
	clamp      string
	grounding  string

	noSave    bool
	plotAfter string
	series    string
	format    string
	outFile   string
	parallel  int
)

// main registers the stride commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "stride",
		Short:         "kinematic locomotion simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.Init(os.Stderr, logLevel, logJSON)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stride", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as json lines")

	runCmd := &cobra.Command{
		Use:   "run [terrain]",
		Short: "run a locomotion simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&plotAfter, "plot", "", "plot a series after the run (e.g. speed, height)")

	liveCmd := &cobra.Command{
		Use:   "live [terrain]",
		Short: "drive the body from the keyboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "hspeed,height,blend", "comma separated series: "+strings.Join(viz.SeriesNames(), ", "))

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run samples",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, csv or svg")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [terrain]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [terrain/preset] [param] [min] [max] [steps]",
		Short: "sweep one locomotion parameter",
		Args:  cobra.ExactArgs(5),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&parallel, "parallel", 4, "concurrent runs")

	compareCmd := &cobra.Command{
		Use:   "compare [terrain/preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same preset",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [terrain/preset]",
		Short: "benchmark step throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchPreset,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, scenarioCmd, sweepCmd, compareCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator: "+strings.Join(integrators.Names(), ", "))
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&inputFile, "input", "", "input script (yaml keyframes)")
	cmd.Flags().Float64Var(&cameraYaw, "yaw", 0, "camera yaw in degrees")
	cmd.Flags().Float64Var(&maxSpeed, "max-speed", locomotion.DefaultMaxSpeed, "max speed")
	cmd.Flags().Float64Var(&maxAccel, "max-accel", locomotion.DefaultMaxAcceleration, "max ground acceleration")
	cmd.Flags().Float64Var(&jumpHeight, "jump-height", locomotion.DefaultJumpHeight, "jump height")
	cmd.Flags().IntVar(&airJumps, "air-jumps", 0, "max air jumps")
	cmd.Flags().Float64Var(&groundDeg, "ground-angle", locomotion.DefaultMaxGroundAngle, "max walkable slope in degrees")
	cmd.Flags().Float64Var(&probe, "probe", locomotion.DefaultProbeDistance, "snap probe distance (0 disables snapping)")
	cmd.Flags().StringVar(&clamp, "clamp", string(locomotion.ClampAxis), "velocity clamp: axis or joint")
	cmd.Flags().StringVar(&grounding, "grounding", string(locomotion.GroundingContacts), "grounding: contacts or body")
}

// buildConfig layers defaults, preset, config file and explicit flags, in
// that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	terrain := config.DefaultTerrain
	if len(args) > 0 {
		terrain = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Terrain = terrain
	if preset != "" {
		cfg = config.GetPreset(terrain, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(terrain))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Terrain = terrain
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("input") {
		cfg.InputFile = inputFile
	}
	if flags.Changed("yaw") {
		cfg.CameraYaw = cameraYaw
	}
	s := &cfg.Locomotion
	if flags.Changed("max-speed") {
		s.MaxSpeed = maxSpeed
	}
	if flags.Changed("max-accel") {
		s.MaxAcceleration = maxAccel
	}
	if flags.Changed("jump-height") {
		s.JumpHeight = jumpHeight
	}
	if flags.Changed("air-jumps") {
		s.MaxAirJumps = airJumps
	}
	if flags.Changed("ground-angle") {
		s.MaxGroundAngle = groundDeg
	}
	if flags.Changed("probe") {
		s.ProbeDistance = probe
	}
	if flags.Changed("clamp") {
		s.VelocityClamp = locomotion.VelocityClamp(clamp)
	}
	if flags.Changed("grounding") {
		s.Grounding = locomotion.Grounding(grounding)
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Terrain
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s...\n", cfg.Name)
	start := time.Now()

	result, err := experiment.Run(ctx, cfg, log.Logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println(viz.Summary(cfg.Name, result.Metrics))

	if plotAfter != "" {
		graph, err := viz.Plot(result.Samples, plotAfter, 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(graph)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	// keyboard drives the body; scripted input is ignored
	cfg.Input = nil
	cfg.InputFile = ""

	// the TUI owns the terminal
	e, err := experiment.New(cfg, zerolog.Nop())
	if err != nil {
		return err
	}

	m := viz.NewModel(e.Simulator(), e.World().Terrain(), e.World().Radius(), cfg.Dt, cfg.Name)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tNAME\tTERRAIN\tTIME\tDURATION\tDT\tINTEG\tJUMPS\tAIR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.0f\t%.0f%%\n",
			run.ID,
			run.Name,
			run.Terrain,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Metrics["jumps"],
			run.Metrics["air_time"]*100,
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

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, name := range strings.Split(series, ",") {
		graph, err := viz.Plot(samples, strings.TrimSpace(name), 80, 10)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return errors.Wrap(err, "create export file")
		}
		defer f.Close()
		out = f
	}
	if format != "svg" {
		return st.Export(out, args[0], format)
	}

	cfg, err := st.LoadConfig(args[0])
	if err != nil {
		return err
	}
	terrain, err := world.TerrainByName(cfg.Terrain)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return export.ProfileSVG(out, terrain, samples, 800, 400)
}

func listPresets(cmd *cobra.Command, args []string) error {
	terrains := config.ListTerrains()
	if len(args) > 0 {
		terrains = args
	}

	for _, terrain := range terrains {
		presets := config.ListPresets(terrain)
		if len(presets) == 0 {
			fmt.Printf("no presets for terrain: %s (terrains: %v)\n", terrain, world.TerrainNames())
			continue
		}
		fmt.Printf("%s:\n", terrain)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	outcomes, err := scenario.RunScenario(ctx, sc, log.Logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	for _, o := range outcomes {
		if !noSave && o.SaveAs != "" {
			if err := st.Init(); err != nil {
				return err
			}
			runID, err := st.Save(o.Config, o.Result)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s as %s\n", o.SaveAs, runID)
		}
		fmt.Println(viz.Summary(o.Config.Name, o.Result.Metrics))
	}

	for _, sweep := range sc.Sweeps {
		results, err := scenario.RunSweep(ctx, sweep, log.Logger)
		if err != nil {
			return err
		}
		printSweep(sweep.Param, results)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	var sweep scenario.Sweep
	sweep.Preset, sweep.Param = args[0], args[1]
	if _, err := fmt.Sscan(args[2]+" "+args[3]+" "+args[4], &sweep.Min, &sweep.Max, &sweep.Steps); err != nil {
		return errors.Wrap(err, "sweep range")
	}
	sweep.Parallel = parallel

	results, err := scenario.RunSweep(context.Background(), sweep, log.Logger)
	if err != nil {
		return err
	}
	printSweep(sweep.Param, results)
	return nil
}

func printSweep(param string, results []scenario.SweepResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK\tBLEND\tAIR\tJUMPS\tSNAPS\n", strings.ToUpper(param))
	for _, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%.4g\t%.3f\t%.3f\t%.0f%%\t%.0f\t%.0f\n",
			r.Value, m["peak_speed"], m["mean_blend"], m["air_time"]*100, m["jumps"], m["snaps"])
	}
	w.Flush()
}

func presetConfig(ref string) (*config.Config, error) {
	terrain, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("preset %q must be terrain/name", ref)
	}
	cfg := config.GetPreset(terrain, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", ref)
	}
	return cfg, nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := presetConfig(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL X\tFINAL Y\tPEAK\tAIR\tENERGY")

	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = name
		result, err := experiment.Run(context.Background(), cfg, log.Logger)
		if err != nil {
			return err
		}
		final, _ := result.Final()
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.3f\t%.0f%%\t%.4f\n",
			name, final.Position.X(), final.Position.Y(),
			result.Metrics["peak_speed"], result.Metrics["air_time"]*100, result.Metrics["energy"])
	}
	return w.Flush()
}

func benchPreset(cmd *cobra.Command, args []string) error {
	base, err := presetConfig(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSUBSTEPS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, step := range []float64{0.005, 0.01, 0.02} {
		for _, substeps := range []int{1, 4} {
			cfg := base.Clone()
			cfg.Dt = step
			cfg.World.Substeps = substeps

			start := time.Now()
			result, err := experiment.Run(context.Background(), cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.3fs\t%d\t%d\t%v\t%.0f\n",
				step, substeps, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

var _ viz.Stepper = (*sim.Simulator)(nil)
