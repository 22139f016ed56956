package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/damper/internal/config"
	"github.com/san-kum/damper/internal/storage"
	"github.com/san-kum/damper/internal/viz"
)

var (
	dataDir   string
	verbose   bool
	themeName string

	configFile    string
	preset        string
	filterKind    string
	policy        string
	integrator    string
	substeps      int
	frequency     float64
	damping       float64
	response      float64
	dt            float64
	duration      float64
	fps           int
	signalKind    string
	amplitude     float64
	signalFreq    float64
	exactVelocity bool
	seed          int64
	save          bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	tuneMetric string
	tuneSteps  int

	svgWidth  int
	svgHeight int
	svgPhase  bool

	mcTrials int
	mcSpread float64
	mcDecade float64

	logger = zap.NewNop()
	styles = viz.Default
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "damper",
		Short:         "second-order damper lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			theme, err := viz.ThemeByName(themeName)
			if err != nil {
				return err
			}
			styles = viz.NewStyles(theme)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".damper", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", fmt.Sprintf("report theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a filter against a target signal",
		Args:  cobra.NoArgs,
		RunE:  runFilter,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot target and value of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run curves to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().BoolVar(&svgPhase, "phase", false, "draw the phase portrait instead")

	compareCmd := &cobra.Command{
		Use:   "compare [filter...]",
		Short: "run several filters on the same signal",
		Long:  "run several filters on the same signal. A filter is a kind, optionally with a policy or integrator: damper, damper/simple, reference/euler, harmonica.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareFilters,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(styles.Title.Render("presets"))
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s %-10s f=%-5g z=%-5g r=%g\n",
					name, p.Filter, p.Params.Frequency, p.Params.Damping, p.Params.Response)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one damper parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", fmt.Sprintf("parameter %v", config.ParamNames()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.5, "sweep end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of points")

	tuneCmd := &cobra.Command{
		Use:   "tune [param...]",
		Short: "grid-search damper parameters minimising a metric",
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "tracking_error", "metric to minimise")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 10, "grid points per parameter")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "randomise tuning and step size to probe stability",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addRunFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&mcTrials, "trials", 200, "number of trials")
	montecarloCmd.Flags().Float64Var(&mcSpread, "spread", 0.9, "relative parameter perturbation")
	montecarloCmd.Flags().Float64Var(&mcDecade, "dt-decades", 2, "dt is scaled by up to 10^decades either way")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and damping analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark filters",
		RunE:  benchFilters,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		compareCmd, presetsCmd, sweepCmd, tuneCmd, montecarloCmd, analyzeCmd, scenarioCmd, benchCmd, newFollowCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Bad.Render("error:"), err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&filterKind, "filter", def.Filter, "filter kind")
	f.StringVar(&policy, "policy", def.Policy, "damper stability policy")
	f.StringVar(&integrator, "integrator", def.Integrator, "reference integrator")
	f.IntVar(&substeps, "substeps", 0, "reference sub-steps per step")
	f.Float64VarP(&frequency, "frequency", "f", def.Params.Frequency, "natural frequency (Hz)")
	f.Float64VarP(&damping, "damping", "z", def.Params.Damping, "damping ratio")
	f.Float64VarP(&response, "response", "r", def.Params.Response, "initial response")
	f.Float64Var(&dt, "dt", def.Dt, "timestep")
	f.IntVar(&fps, "fps", 0, "timestep as frames per second (overrides dt)")
	f.Float64Var(&duration, "time", def.Duration, "duration")
	f.StringVar(&signalKind, "signal", def.Signal.Kind, "target signal kind")
	f.Float64Var(&amplitude, "amplitude", def.Signal.Amplitude, "signal amplitude")
	f.Float64Var(&signalFreq, "signal-freq", 1, "signal frequency for sine and square (Hz)")
	f.BoolVar(&exactVelocity, "exact-velocity", false, "pass the analytic target velocity")
	f.Int64Var(&seed, "seed", def.Seed, "random seed")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("filter") {
		cfg.Filter = filterKind
	}
	if flags.Changed("policy") {
		cfg.Policy = policy
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("frequency") {
		cfg.Params.Frequency = frequency
	}
	if flags.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if flags.Changed("response") {
		cfg.Params.Response = response
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("fps") {
		if fps <= 0 {
			return nil, fmt.Errorf("fps must be positive, got %d", fps)
		}
		cfg.Dt = 1 / float64(fps)
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("signal") {
		cfg.Signal.Kind = signalKind
	}
	if flags.Changed("amplitude") {
		cfg.Signal.Amplitude = amplitude
	}
	if flags.Changed("signal-freq") || (flags.Changed("signal") && cfg.Signal.Frequency == 0) {
		cfg.Signal.Frequency = signalFreq
	}
	if flags.Changed("exact-velocity") {
		cfg.ExactVelocity = exactVelocity
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
