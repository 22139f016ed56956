package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/damper/internal/config"
	"github.com/san-kum/damper/internal/signal"
	"github.com/san-kum/damper/internal/sim"
	"github.com/san-kum/damper/internal/storage"
)

// Experiment is one configured run: a filter built from the registry, a
// target source and the metrics scoring it.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
	source    signal.Source
	logger    *zap.Logger
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: zap.NewNop()}
}

func (e *Experiment) WithLogger(l *zap.Logger) *Experiment {
	if l != nil {
		e.logger = l
	}
	return e
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	filter, err := e.registry.GetFilter(e.cfg.FilterSpec())
	if err != nil {
		return err
	}
	src, err := e.registry.GetSignal(e.cfg.Signal, e.cfg.Seed)
	if err != nil {
		return err
	}

	e.source = src
	e.simulator = sim.New(filter).WithLogger(e.logger)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.source, e.cfg.SimConfig())
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes the run for storage. ID, timestamp and metrics are
// filled in by the store.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Seed:          e.cfg.Seed,
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Params:        e.cfg.Params,
		Policy:        e.cfg.Policy,
		Integrator:    e.cfg.Integrator,
		ExactVelocity: e.cfg.ExactVelocity,
		Signal:        e.cfg.Signal,
	}
}

// Run is a convenience for Setup with default metrics followed by Run.
func Run(ctx context.Context, cfg *config.Config, registry *Registry, logger *zap.Logger) (*sim.Result, error) {
	exp := New(cfg, registry).WithLogger(logger)
	if err := exp.Setup(exp.registry.DefaultMetrics()); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
