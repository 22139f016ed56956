package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/damper/internal/config"
	"github.com/san-kum/damper/internal/experiment"
)

var ErrNoEvaluation = errors.New("optim: no grid point could be evaluated")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *zap.Logger
	evaluated  int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, logger: zap.NewNop()}
}

func (g *GridSearch) WithLogger(l *zap.Logger) *GridSearch {
	if l != nil {
		g.logger = l
	}
	return g
}

// Evaluated reports how many grid points produced a finite metric in the
// last Search.
func (g *GridSearch) Evaluated() int { return g.evaluated }

// Search runs one experiment per grid point and returns the parameters
// minimising metricName. Points whose experiment fails to build or run, or
// whose metric is not finite, are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid has %d names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	g.evaluated = 0
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoEvaluation
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			g.logger.Debug("grid point skipped", zap.Any("params", current), zap.Error(err))
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.logger.Debug("grid point failed", zap.Any("params", current), zap.Error(err))
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		g.evaluated++
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	out[n-1] = max
	return out
}

// Tune grid-searches damper parameters on top of base and returns the best
// configuration found.
func Tune(
	ctx context.Context,
	base *config.Config,
	params []string,
	ranges [][]float64,
	metricName string,
	logger *zap.Logger,
) (*config.Config, float64, error) {
	for _, name := range params {
		if err := base.Clone().SetParam(name, 0); err != nil {
			return nil, 0, err
		}
	}

	registry := experiment.NewRegistry()
	build := func(values map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range values {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, registry)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}

	gs := NewGridSearch(params, ranges).WithLogger(logger)
	bestParams, best, err := gs.Search(ctx, build, metricName)
	if err != nil {
		return nil, 0, err
	}

	tuned := base.Clone()
	for name, v := range bestParams {
		tuned.SetParam(name, v)
	}
	gs.logger.Info("tuning finished",
		zap.String("metric", metricName),
		zap.Float64("best", best),
		zap.Int("evaluated", gs.Evaluated()))
	return tuned, best, nil
}
