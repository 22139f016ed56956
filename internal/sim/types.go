package sim

import (
	"fmt"
	"math"
)

// State is the vector integrated by a Dynamics. Reference filters use it to
// carry {value, velocity}.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Axpy returns s + h*d. Missing trailing entries of d count as zero.
func (s State) Axpy(h float64, d State) State {
	out := make(State, len(s))
	for i := range s {
		out[i] = s[i]
		if i < len(d) {
			out[i] += h * d[i]
		}
	}
	return out
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// Source produces the target signal sampled by the simulator.
type Source interface {
	At(t float64) float64
}

// Deriver is implemented by sources with an analytic derivative. It is used
// when Config.ExactVelocity is set.
type Deriver interface {
	Derivative(t float64) float64
}

// Filter is a single-channel smoother advanced one sample at a time.
// targetVel is nil when the filter should estimate it.
type Filter interface {
	Name() string
	Reset(x0 float64)
	Step(dt, target float64, targetVel *float64) (value, velocity float64, err error)
}

type Sample struct {
	T        float64 `json:"t"`
	Target   float64 `json:"target"`
	Value    float64 `json:"value"`
	Velocity float64 `json:"velocity"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt           float64
	Duration     float64
	Seed         int64
	InitialValue float64
	// ExactVelocity feeds the source's analytic derivative to the filter
	// instead of letting it difference the input.
	ExactVelocity bool
}

func DefaultConfig() Config {
	return Config{
		Dt:       1.0 / 60.0,
		Duration: 3.0,
		Seed:     42,
	}
}

type Result struct {
	Filter     string
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

func (r *Result) Times() []float64   { return r.column(func(s Sample) float64 { return s.T }) }
func (r *Result) Values() []float64  { return r.column(func(s Sample) float64 { return s.Value }) }
func (r *Result) Targets() []float64 { return r.column(func(s Sample) float64 { return s.Target }) }

func (r *Result) Velocities() []float64 {
	return r.column(func(s Sample) float64 { return s.Velocity })
}

func (r *Result) column(get func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = get(s)
	}
	return out
}

// Final returns the last recorded sample, or the zero Sample.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e *SimError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d (t=%.4f): %s: %v", e.Step, e.Time, e.Message, e.Err)
	}
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e *SimError) Unwrap() error { return e.Err }
