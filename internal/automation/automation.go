package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/damper/internal/config"
	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/experiment"
	"github.com/san-kum/damper/internal/signal"
	"github.com/san-kum/damper/internal/sim"
	"github.com/san-kum/damper/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. It starts from Preset (or the default
// config) and overrides every field that is set.
type ScenarioStep struct {
	Name          string         `yaml:"name"`
	Preset        string         `yaml:"preset"`
	Filter        string         `yaml:"filter"`
	Policy        string         `yaml:"policy"`
	Integrator    string         `yaml:"integrator"`
	Substeps      int            `yaml:"substeps"`
	Params        *dynamo.Params `yaml:"params"`
	Dt            float64        `yaml:"dt"`
	Duration      float64        `yaml:"duration"`
	ExactVelocity *bool          `yaml:"exact_velocity"`
	Signal        *signal.Spec   `yaml:"signal"`
	Save          bool           `yaml:"save"`
}

// Config resolves the step into a full run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Filter != "" {
		cfg.Filter = s.Filter
	}
	if s.Policy != "" {
		cfg.Policy = s.Policy
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Substeps != 0 {
		cfg.Substeps = s.Substeps
	}
	if s.Params != nil {
		cfg.Params = *s.Params
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.ExactVelocity != nil {
		cfg.ExactVelocity = *s.ExactVelocity
	}
	if s.Signal != nil {
		cfg.Signal = *s.Signal
	}
	return cfg, nil
}

// StepResult pairs a scenario step with its outcome. RunID is set when the
// step was saved.
type StepResult struct {
	Name   string
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// RunScenario executes all steps in order. Steps marked save are written to
// store when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("running scenario step",
			zap.String("scenario", scenario.Name),
			zap.String("step", name),
			zap.Int("index", i+1),
			zap.Int("total", len(scenario.Steps)))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, registry).WithLogger(logger)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result}
		if step.Save && store != nil {
			id, err := store.Save(exp.Metadata(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs the base configuration across a range of one damper
// parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Final      sim.Sample
	Metrics    map[string]float64
	Err        error
}

// RunSweep executes all sweep points in parallel. A point that fails keeps
// its error in SweepResult.Err rather than aborting the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *zap.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if err := sweep.Base.Clone().SetParam(sweep.ParamName, sweep.ParamMin); err != nil {
		return nil, err
	}

	values := make([]float64, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.ParamMin
		if sweep.NumSteps > 1 {
			values[i] += float64(i) * (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
		}
	}

	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		cfg.SetParam(sweep.ParamName, v)
		cfgs[i] = cfg
	}

	runs, errs, _ := runParallel(ctx, cfgs, registry, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(values))
	for i, v := range values {
		results[i] = SweepResult{ParamValue: v, Err: errs[i]}
		if r := runs[i]; r != nil {
			results[i].Final = r.Final()
			results[i].Metrics = r.Metrics
		}
	}
	if logger != nil {
		logger.Info("sweep finished", zap.String("param", sweep.ParamName), zap.Int("points", len(values)))
	}
	return results, nil
}

// runParallel runs one experiment per config on a sim.Ensemble. Configs that
// are rejected before running get a nil result, their error and
// invalid[i] set; runs that abort keep their partial result and the run
// error, typically a *sim.SimError.
func runParallel(ctx context.Context, cfgs []*config.Config, registry *experiment.Registry, logger *zap.Logger) (runs []*sim.Result, errs []error, invalid []bool) {
	ens := sim.NewEnsemble(logger)
	index := make([]int, 0, len(cfgs))
	runs = make([]*sim.Result, len(cfgs))
	errs = make([]error, len(cfgs))
	invalid = make([]bool, len(cfgs))

	for i, cfg := range cfgs {
		filter, err := registry.GetFilter(cfg.FilterSpec())
		if err != nil {
			errs[i], invalid[i] = err, true
			continue
		}
		src, err := registry.GetSignal(cfg.Signal, cfg.Seed)
		if err != nil {
			errs[i], invalid[i] = err, true
			continue
		}
		ens.Add(sim.Job{
			Name:    fmt.Sprintf("run-%d", i),
			Filter:  filter,
			Source:  src,
			Config:  cfg.SimConfig(),
			Metrics: registry.DefaultMetrics(),
		})
		index = append(index, i)
	}

	results, jobErrs := ens.RunAll(ctx)
	for j, i := range index {
		runs[i], errs[i] = results[j], jobErrs[j]
		if results[j] == nil {
			invalid[i] = true
		}
	}
	return runs, errs, invalid
}

// MonteCarloConfig randomises damper tuning and step size around Base to
// probe the stability guarantee.
type MonteCarloConfig struct {
	Base *config.Config
	// Perturbation is the relative spread applied to frequency, damping and
	// response.
	Perturbation float64
	// DtDecades scales dt by 10^u with u uniform in [-DtDecades, DtDecades].
	DtDecades float64
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds one randomised trial. Invalid trials were rejected
// before running, for example a perturbed frequency that is not positive;
// they count as neither stable nor unstable.
type MonteCarloResult struct {
	TrialID int
	Params  dynamo.Params
	Dt      float64
	Final   sim.Sample
	Stable  bool
	Invalid bool
	Err     error
}

// RunMonteCarlo executes all trials in parallel. A trial is stable when it
// runs to completion with every sample finite and bounded.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry, logger *zap.Logger) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	spread := func(v float64) float64 {
		return v * (1 + (rng.Float64()*2-1)*mc.Perturbation)
	}

	cfgs := make([]*config.Config, mc.NumTrials)
	for i := range cfgs {
		cfg := mc.Base.Clone()
		cfg.Params.Frequency = spread(cfg.Params.Frequency)
		cfg.Params.Damping = math.Max(0, spread(cfg.Params.Damping))
		cfg.Params.Response = spread(cfg.Params.Response)
		cfg.Dt *= math.Pow(10, (rng.Float64()*2-1)*mc.DtDecades)
		cfg.Seed = mc.Seed + int64(i)
		cfgs[i] = cfg
	}

	runs, errs, invalid := runParallel(ctx, cfgs, registry, logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(cfgs))
	for i, cfg := range cfgs {
		res := MonteCarloResult{TrialID: i, Params: cfg.Params, Dt: cfg.Dt, Invalid: invalid[i], Err: errs[i]}
		if r := runs[i]; r != nil {
			res.Final = r.Final()
			res.Stable = errs[i] == nil && r.Metrics["stability"] == 1
		}
		results[i] = res
	}

	if logger != nil {
		stable, unstable, rejected := MonteCarloStats(results)
		logger.Info("monte carlo finished",
			zap.Int("stable", stable),
			zap.Int("unstable", unstable),
			zap.Int("invalid", rejected))
	}
	return results, nil
}

// MonteCarloStats counts stable, unstable and invalid trials. Only trials
// that actually ran are stable or unstable.
func MonteCarloStats(results []MonteCarloResult) (stable, unstable, invalid int) {
	for _, r := range results {
		switch {
		case r.Invalid:
			invalid++
		case r.Stable:
			stable++
		default:
			unstable++
		}
	}
	return
}
