package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/damper/internal/dynamo"
)

// lagFilter is a first-order lag y' = (x - y)/tau integrated with Euler.
type lagFilter struct {
	tau      float64
	y        float64
	lastVel  *float64
	failStep int
	steps    int
}

func (f *lagFilter) Name() string { return "lag" }

func (f *lagFilter) Reset(x0 float64) {
	f.y = x0
	f.steps = 0
}

func (f *lagFilter) Step(dt, target float64, targetVel *float64) (float64, float64, error) {
	f.steps++
	f.lastVel = targetVel
	if f.failStep > 0 && f.steps == f.failStep {
		return f.y, 0, errors.New("lag failure")
	}
	v := (target - f.y) / f.tau
	f.y += dt * v
	return f.y, v, nil
}

type constSource float64

func (c constSource) At(float64) float64 { return float64(c) }

type rampSource struct{ slope float64 }

func (r rampSource) At(t float64) float64       { return r.slope * t }
func (r rampSource) Derivative(float64) float64 { return r.slope }

type countMetric struct{ n int }

func (m *countMetric) Name() string   { return "count" }
func (m *countMetric) Observe(Sample) { m.n++ }
func (m *countMetric) Value() float64 { return float64(m.n) }
func (m *countMetric) Reset()         { m.n = 0 }

type recorder struct{ samples []Sample }

func (r *recorder) OnStep(s Sample) { r.samples = append(r.samples, s) }

func TestSimulatorRun(t *testing.T) {
	f := &lagFilter{tau: 1}
	s := New(f)
	m := &countMetric{}
	obs := &recorder{}
	s.AddMetric(m)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), constSource(1), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if result.Metrics["count"] != 11 {
		t.Errorf("metric saw %v samples, want 11", result.Metrics["count"])
	}
	if len(obs.samples) != 11 {
		t.Errorf("observer saw %d samples, want 11", len(obs.samples))
	}
	if result.Filter != "lag" {
		t.Errorf("result filter = %q", result.Filter)
	}

	// Euler lag: 1 - 0.9^10
	expected := 1 - math.Pow(0.9, 10)
	if got := result.Final().Value; math.Abs(got-expected) > 1e-12 {
		t.Errorf("final value = %.6f, want %.6f", got, expected)
	}
	if got := result.Final().T; math.Abs(got-1.0) > 1e-12 {
		t.Errorf("final time = %v, want 1.0", got)
	}
}

func TestSimulatorInitialValue(t *testing.T) {
	s := New(&lagFilter{tau: 1})
	result, err := s.Run(context.Background(), constSource(0), Config{Dt: 0.1, Duration: 0.1, InitialValue: 5})
	if err != nil {
		t.Fatal(err)
	}
	if result.Samples[0].Value != 5 {
		t.Errorf("first sample = %v, want 5", result.Samples[0].Value)
	}
	if got := result.Samples[1].Value; math.Abs(got-4.5) > 1e-12 {
		t.Errorf("second sample = %v, want 4.5", got)
	}
}

func TestSimulatorExactVelocity(t *testing.T) {
	f := &lagFilter{tau: 1}
	s := New(f)

	if _, err := s.Run(context.Background(), rampSource{slope: 2}, Config{Dt: 0.1, Duration: 0.2, ExactVelocity: true}); err != nil {
		t.Fatal(err)
	}
	if f.lastVel == nil || *f.lastVel != 2 {
		t.Errorf("filter did not receive analytic velocity: %v", f.lastVel)
	}

	if _, err := s.Run(context.Background(), rampSource{slope: 2}, Config{Dt: 0.1, Duration: 0.2}); err != nil {
		t.Fatal(err)
	}
	if f.lastVel != nil {
		t.Error("velocity passed without ExactVelocity")
	}

	if _, err := s.Run(context.Background(), constSource(1), Config{Dt: 0.1, Duration: 0.2, ExactVelocity: true}); err != nil {
		t.Fatal(err)
	}
	if f.lastVel != nil {
		t.Error("velocity passed for a source without a derivative")
	}
}

func TestSimulatorFilterError(t *testing.T) {
	s := New(&lagFilter{tau: 1, failStep: 3})

	result, err := s.Run(context.Background(), constSource(1), Config{Dt: 0.1, Duration: 1.0})
	if err == nil {
		t.Fatal("expected error")
	}

	var simErr *SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimError, got %T", err)
	}
	if simErr.Step != 3 {
		t.Errorf("error at step %d, want 3", simErr.Step)
	}
	if result == nil || len(result.Samples) != 3 {
		t.Errorf("expected partial result with 3 samples")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&lagFilter{tau: 1})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"NaN dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"infinite initial value", Config{Dt: 0.1, Duration: 1.0, InitialValue: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), constSource(0), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	s := New(&lagFilter{tau: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, constSource(1), Config{Dt: 0.001, Duration: 100})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	s := New(&lagFilter{tau: 1})

	count := 0
	err := s.RunWithCallback(context.Background(), constSource(1), Config{Dt: 0.1, Duration: 1.0}, func(Sample) bool {
		count++
		return count < 5
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 callbacks, got %d", count)
	}
}

func TestEnsembleRun(t *testing.T) {
	e := NewEnsemble(nil)
	for i, tau := range []float64{0.5, 1, 2} {
		e.Add(Job{
			Name:    string(rune('a' + i)),
			Filter:  &lagFilter{tau: tau},
			Source:  constSource(1),
			Config:  Config{Dt: 0.01, Duration: 1},
			Metrics: []Metric{&countMetric{}},
		})
	}

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != e.Len() {
		t.Fatalf("got %d results", len(results))
	}

	// Faster lags get closer to the target.
	if !(results[0].Final().Value > results[1].Final().Value && results[1].Final().Value > results[2].Final().Value) {
		t.Errorf("results out of order: %v %v %v",
			results[0].Final().Value, results[1].Final().Value, results[2].Final().Value)
	}
	for _, r := range results {
		if r.Metrics["count"] != 101 {
			t.Errorf("count = %v, want 101", r.Metrics["count"])
		}
	}
}

func TestEnsembleError(t *testing.T) {
	e := NewEnsemble(nil)
	e.Add(Job{Name: "ok", Filter: &lagFilter{tau: 1}, Source: constSource(1), Config: Config{Dt: 0.1, Duration: 1}})
	e.Add(Job{Name: "bad", Filter: &lagFilter{tau: 1, failStep: 2}, Source: constSource(1), Config: Config{Dt: 0.1, Duration: 1}})

	results, err := e.Run(context.Background())
	var simErr *SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected wrapped *SimError, got %v", err)
	}
	if results[0] == nil || results[0].StepsTaken != 10 {
		t.Error("healthy job result missing")
	}

	results, errs := e.RunAll(context.Background())
	if errs[0] != nil {
		t.Errorf("healthy job reported %v", errs[0])
	}
	if !errors.As(errs[1], &simErr) || simErr.Step != 2 {
		t.Errorf("expected *SimError at step 2 for failing job, got %v", errs[1])
	}
	if results[1] == nil || results[1].StepsTaken != 1 {
		t.Error("failing job lost its partial result")
	}
}

func TestFixedClockFollower(t *testing.T) {
	d, err := dynamo.NewScalar(dynamo.Critical, 0)
	if err != nil {
		t.Fatal(err)
	}
	ref, _ := dynamo.NewScalar(dynamo.Critical, 0)

	f := NewFollower(d, FixedClock(1.0/60))
	for i := 0; i < 30; i++ {
		got, err := f.Set(1)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		want, _ := ref.Update(1.0/60, 1)
		if got != want {
			t.Fatalf("step %d: follower %v, direct %v", i, got, want)
		}
	}
	if f.Value() != ref.Value() || f.Damper() != d {
		t.Error("follower state diverged from its damper")
	}
}

func TestWallClock(t *testing.T) {
	base := time.Unix(100, 0)
	now := base
	c := newWallClock(func() time.Time { return now })

	now = base.Add(20 * time.Millisecond)
	if got := c.Delta(); math.Abs(got-0.02) > 1e-12 {
		t.Errorf("Delta() = %v, want 0.02", got)
	}

	if got := c.Delta(); got != 0 {
		t.Errorf("repeated Delta() = %v, want 0", got)
	}
}

func TestFollowerZeroDelta(t *testing.T) {
	d, _ := dynamo.NewScalar(dynamo.Critical, 0)
	f := NewFollower(d, FixedClock(0))

	if _, err := f.Set(1); !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
}
