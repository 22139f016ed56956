package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

type Simulator struct {
	filter    Filter
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func New(filter Filter) *Simulator {
	return &Simulator{
		filter:    filter,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
}

func (s *Simulator) WithLogger(l *zap.Logger) *Simulator {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *Simulator) Filter() Filter { return s.filter }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run resets the filter to cfg.InitialValue and steps it against src for
// cfg.Duration. The first sample is the initial state at t=0. On a filter
// error the partial result is returned together with a *SimError.
func (s *Simulator) Run(ctx context.Context, src Source, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	result := &Result{
		Filter:  s.filter.Name(),
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	log := s.logger.With(zap.String("filter", s.filter.Name()))
	log.Debug("run started", zap.Int("steps", steps), zap.Float64("dt", cfg.Dt))

	s.filter.Reset(cfg.InitialValue)
	s.record(result, Sample{T: 0, Target: src.At(0), Value: cfg.InitialValue})

	var runErr error
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		sample, err := s.advance(src, cfg, t)
		if err != nil {
			runErr = &SimError{Time: t, Step: i, Message: "filter step failed", Err: err}
			log.Warn("run aborted", zap.Error(runErr))
			break
		}
		s.record(result, sample)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Debug("run finished", zap.Int("steps_taken", result.StepsTaken))
	return result, runErr
}

// RunWithCallback streams samples without retaining them. Returning false
// from callback stops the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, src Source, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	s.filter.Reset(cfg.InitialValue)
	if !callback(Sample{T: 0, Target: src.At(0), Value: cfg.InitialValue}) {
		return nil
	}

	steps := stepCount(cfg)
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		sample, err := s.advance(src, cfg, t)
		if err != nil {
			return &SimError{Time: t, Step: i, Message: "filter step failed", Err: err}
		}
		if !callback(sample) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) advance(src Source, cfg Config, t float64) (Sample, error) {
	target := src.At(t)

	var targetVel *float64
	if cfg.ExactVelocity {
		if d, ok := src.(Deriver); ok {
			v := d.Derivative(t)
			targetVel = &v
		}
	}

	y, yd, err := s.filter.Step(cfg.Dt, target, targetVel)
	if err != nil {
		return Sample{}, err
	}
	return Sample{T: t, Target: target, Value: y, Velocity: yd}, nil
}

func (s *Simulator) record(r *Result, sample Sample) {
	r.Samples = append(r.Samples, sample)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if math.IsNaN(cfg.InitialValue) || math.IsInf(cfg.InitialValue, 0) {
		return fmt.Errorf("initial value must be finite, got %f", cfg.InitialValue)
	}
	return nil
}

func stepCount(cfg Config) int {
	return int(math.Round(cfg.Duration / cfg.Dt))
}
