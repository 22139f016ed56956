// Package signal provides target waveforms for driving filters.
package signal

import (
	"math"
	"math/rand"
)

type Source interface {
	At(t float64) float64
}

// Deriver is implemented by sources with an analytic time derivative.
type Deriver interface {
	Derivative(t float64) float64
}

type Constant float64

func (c Constant) At(float64) float64         { return float64(c) }
func (c Constant) Derivative(float64) float64 { return 0 }

// Step jumps from From to To at Time.
type Step struct {
	Time, From, To float64
}

func (s Step) At(t float64) float64 {
	if t >= s.Time {
		return s.To
	}
	return s.From
}

func (s Step) Derivative(float64) float64 { return 0 }

// Ramp holds Offset until Start, then rises with Slope.
type Ramp struct {
	Start, Slope, Offset float64
}

func (r Ramp) At(t float64) float64 {
	if t < r.Start {
		return r.Offset
	}
	return r.Offset + r.Slope*(t-r.Start)
}

func (r Ramp) Derivative(t float64) float64 {
	if t < r.Start {
		return 0
	}
	return r.Slope
}

type Sine struct {
	Amplitude, Frequency, Phase, Offset float64
}

func (s Sine) At(t float64) float64 {
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*s.Frequency*t+s.Phase)
}

func (s Sine) Derivative(t float64) float64 {
	w := 2 * math.Pi * s.Frequency
	return s.Amplitude * w * math.Cos(w*t+s.Phase)
}

// Square alternates between Offset+Amplitude and Offset-Amplitude, starting
// high.
type Square struct {
	Amplitude, Frequency, Offset float64
}

func (s Square) At(t float64) float64 {
	phase := t*s.Frequency - math.Floor(t*s.Frequency)
	if phase < 0.5 {
		return s.Offset + s.Amplitude
	}
	return s.Offset - s.Amplitude
}

func (s Square) Derivative(float64) float64 { return 0 }

// SampleHold reads Source only on multiples of Period and holds the value in
// between, producing the stepwise input typical of low-rate sensors.
type SampleHold struct {
	Source Source
	Period float64
}

func (h SampleHold) At(t float64) float64 {
	if h.Period <= 0 {
		return h.Source.At(t)
	}
	return h.Source.At(math.Floor(t/h.Period) * h.Period)
}

// Noisy adds uniform jitter in [-Amplitude, Amplitude] to Source. The
// sequence is fixed by the seed and the order of At calls.
type Noisy struct {
	Source    Source
	Amplitude float64
	rng       *rand.Rand
}

func NewNoisy(src Source, amplitude float64, seed int64) *Noisy {
	return &Noisy{Source: src, Amplitude: amplitude, rng: rand.New(rand.NewSource(seed))}
}

func (n *Noisy) At(t float64) float64 {
	return n.Source.At(t) + n.Amplitude*(2*n.rng.Float64()-1)
}
