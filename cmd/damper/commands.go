package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/damper/internal/analysis"
	"github.com/san-kum/damper/internal/automation"
	"github.com/san-kum/damper/internal/config"
	"github.com/san-kum/damper/internal/experiment"
	"github.com/san-kum/damper/internal/export"
	"github.com/san-kum/damper/internal/filters"
	"github.com/san-kum/damper/internal/optim"
	"github.com/san-kum/damper/internal/sim"
	"github.com/san-kum/damper/internal/storage"
	"github.com/san-kum/damper/internal/viz"
)

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, registry).WithLogger(logger)
	if err := exp.Setup(registry.DefaultMetrics()); err != nil {
		return err
	}

	start := time.Now()
	result, runErr := exp.Run(cmd.Context())
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", zap.Error(runErr))
	}

	fmt.Println(styles.Title.Render(fmt.Sprintf("%s  f=%g z=%g r=%g  dt=%.4g",
		result.Filter, cfg.Params.Frequency, cfg.Params.Damping, cfg.Params.Response, cfg.Dt)))
	fmt.Println(styles.PlotResponse(result.Samples, cfg.Signal.Kind, viz.DefaultWidth, viz.DefaultHeight))
	fmt.Println(styles.MetricsTable(result.Metrics))
	fmt.Printf("steps: %d in %v\n", result.StepsTaken, elapsed)

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		meta := exp.Metadata()
		meta.Filter = result.Filter
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return runErr
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
	fmt.Fprintln(w, "ID\tFILTER\tTIME\tF\tZ\tR\tDT\tSIGNAL\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Filter,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Frequency,
			run.Params.Damping,
			run.Params.Response,
			run.Dt,
			run.Signal.Kind,
			run.Steps,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Println(styles.KeyValues(meta.ID,
		[]string{"filter", "signal", "samples"},
		map[string]string{
			"filter":  meta.Filter,
			"signal":  meta.Signal.Kind,
			"samples": fmt.Sprint(len(samples)),
		}))
	fmt.Println(styles.PlotResponse(samples, "response", viz.DefaultWidth, viz.DefaultHeight))
	fmt.Println()

	vel := make([]float64, len(samples))
	for i, s := range samples {
		vel[i] = s.Velocity
	}
	fmt.Println(styles.PlotSeries(vel, "velocity", viz.DefaultWidth, viz.DefaultHeight))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if svgPhase {
		fmt.Println(export.PhaseToSVG(analysis.PhasePortrait(samples), svgWidth, svgHeight, export.ValueColor))
		return nil
	}
	fmt.Println(export.SamplesToSVG(samples, svgWidth, svgHeight))
	return nil
}

// parseFilterArg splits "kind/variant" where the variant is a policy for
// the damper and an integrator for the reference.
func parseFilterArg(arg string, cfg *config.Config) filters.Spec {
	spec := cfg.FilterSpec()
	kind, variant, _ := strings.Cut(arg, "/")
	spec.Kind = kind
	switch kind {
	case filters.KindDamper:
		if variant != "" {
			spec.Policy = variant
		}
	case filters.KindReference:
		if variant != "" {
			spec.Integrator = variant
		}
	}
	return spec
}

func compareFilters(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	ens := sim.NewEnsemble(logger)
	for _, arg := range args {
		f, err := registry.GetFilter(parseFilterArg(arg, cfg))
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		src, err := registry.GetSignal(cfg.Signal, cfg.Seed)
		if err != nil {
			return err
		}
		ens.Add(sim.Job{
			Name:    arg,
			Filter:  f,
			Source:  src,
			Config:  cfg.SimConfig(),
			Metrics: registry.DefaultMetrics(),
		})
	}

	start := time.Now()
	results, errs := ens.RunAll(cmd.Context())
	elapsed := time.Since(start)

	fmt.Println(styles.Title.Render(fmt.Sprintf("comparing %d filters (f=%g z=%g r=%g dt=%.4g, %s signal)",
		len(args), cfg.Params.Frequency, cfg.Params.Damping, cfg.Params.Response, cfg.Dt, cfg.Signal.Kind)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILTER\tFINAL\tOVERSHOOT\tSETTLING\tTRACKING\tSTABILITY\tTREND")
	for i, r := range results {
		if r == nil {
			fmt.Fprintf(w, "%s\t%s\n", args[i], styles.Bad.Render(errs[i].Error()))
			continue
		}
		if errs[i] != nil {
			logger.Warn("filter stopped early", zap.String("filter", args[i]), zap.Error(errs[i]))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Filter,
			viz.FormatFloat(r.Final().Value),
			viz.FormatFloat(r.Metrics["overshoot"]),
			viz.FormatFloat(r.Metrics["settling_time"]),
			viz.FormatFloat(r.Metrics["tracking_error"]),
			viz.FormatFloat(r.Metrics["stability"]),
			styles.Sparkline(r.Values(), 24),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", elapsed)
	return cmd.Context().Err()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	fmt.Println(styles.Title.Render(fmt.Sprintf("sweep %s over [%g, %g]", sweepParam, sweepMin, sweepMax)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tOVERSHOOT\tSETTLING\tTRACKING\tSTATUS\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		status := styles.Good.Render("ok")
		if r.Err != nil {
			status = styles.Bad.Render(r.Err.Error())
		}
		fmt.Fprintf(w, "%g\t%s\t%s\t%s\t%s\t%s\n",
			r.ParamValue,
			viz.FormatFloat(r.Final.Value),
			viz.FormatFloat(r.Metrics["overshoot"]),
			viz.FormatFloat(r.Metrics["settling_time"]),
			viz.FormatFloat(r.Metrics["tracking_error"]),
			status,
		)
	}
	return w.Flush()
}

// defaultTuneRange is the grid searched for each parameter when tuning.
var defaultTuneRange = map[string][2]float64{
	"frequency": {0.5, 5},
	"damping":   {0.2, 1.5},
	"response":  {-1, 2},
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	params := args
	if len(params) == 0 {
		params = []string{"frequency", "damping"}
	}

	ranges := make([][]float64, len(params))
	for i, name := range params {
		rng, ok := defaultTuneRange[name]
		if !ok {
			return fmt.Errorf("cannot tune %q (available: %v)", name, config.ParamNames())
		}
		ranges[i] = optim.Linspace(rng[0], rng[1], tuneSteps)
	}

	tuned, best, err := optim.Tune(cmd.Context(), cfg, params, ranges, tuneMetric, logger)
	if err != nil {
		return err
	}

	fmt.Println(styles.KeyValues("tuned "+tuneMetric,
		[]string{"frequency", "damping", "response", tuneMetric},
		map[string]string{
			"frequency": fmt.Sprintf("%g", tuned.Params.Frequency),
			"damping":   fmt.Sprintf("%g", tuned.Params.Damping),
			"response":  fmt.Sprintf("%g", tuned.Params.Response),
			tuneMetric:  viz.FormatFloat(best),
		}))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: mcSpread,
		DtDecades:    mcDecade,
		NumTrials:    mcTrials,
		Seed:         cfg.Seed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	stable, unstable, invalid := automation.MonteCarloStats(results)
	fmt.Println(styles.Title.Render(fmt.Sprintf("%d trials", len(results))))
	fmt.Printf("stable:   %s\n", styles.Good.Render(fmt.Sprint(stable)))
	fmt.Printf("unstable: %s\n", styles.Bad.Render(fmt.Sprint(unstable)))
	fmt.Printf("invalid:  %s\n", styles.Muted.Render(fmt.Sprint(invalid)))
	for _, r := range results {
		if r.Stable || r.Invalid {
			continue
		}
		fmt.Printf("  trial %d: f=%g z=%g r=%g dt=%g err=%v\n",
			r.TrialID, r.Params.Frequency, r.Params.Damping, r.Params.Response, r.Dt, r.Err)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Println(styles.Title.Render("analysis: " + meta.ID))

	errs := make([]float64, len(samples))
	for i, s := range samples {
		errs[i] = s.Value - s.Target
	}
	ps := analysis.PowerSpectrum(errs)
	if len(ps) > 4 {
		fmt.Println(styles.PlotSeries(ps[:len(ps)/4], "power spectrum (tracking error)", viz.DefaultWidth, 15))
		fmt.Println()
	}

	measured := analysis.DominantFrequency(errs, meta.Dt)
	expected := analysis.DampedFrequency(meta.Params)
	values := map[string]string{
		"dominant frequency": fmt.Sprintf("%.3f hz", measured),
		"damped frequency":   fmt.Sprintf("%.3f hz", expected),
		"crossings":          fmt.Sprint(analysis.Crossings(samples)),
		"damping estimate":   "n/a",
		"damping configured": fmt.Sprintf("%g", meta.Params.Damping),
	}
	if zeta, ok := analysis.EstimateDamping(samples); ok {
		values["damping estimate"] = fmt.Sprintf("%.3f", zeta)
	}
	fmt.Println(styles.KeyValues("response",
		[]string{"dominant frequency", "damped frequency", "crossings", "damping estimate", "damping configured"},
		values))

	fmt.Println()
	fmt.Println(styles.Muted.Render("phase portrait (error vs velocity)"))
	fmt.Println(analysis.RenderPhase(analysis.PhasePortrait(samples), 70, 20))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, logger)
	fmt.Println(styles.Title.Render("scenario: " + scenario.Name))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFILTER\tFINAL\tTRACKING\tRUN")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			r.Result.Filter,
			viz.FormatFloat(r.Result.Final().Value),
			viz.FormatFloat(r.Result.Metrics["tracking_error"]),
			runID,
		)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func benchFilters(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	dts := []float64{1.0 / 240, 1.0 / 60, 1.0 / 15}
	const dur = 10.0

	fmt.Println(styles.Title.Render("benchmarking filters"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILTER\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, kind := range registry.ListFilters() {
		for _, step := range dts {
			cfg := config.DefaultConfig()
			cfg.Filter = kind
			cfg.Dt = step
			cfg.Duration = dur

			exp := experiment.New(cfg, registry)
			if err := exp.Setup(nil); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%v\t%.0f\n",
				result.Filter, step, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
