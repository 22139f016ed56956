package metrics

import (
	"math"

	"github.com/san-kum/damper/internal/sim"
)

// Overshoot is the largest travel past the target, as a fraction of the
// distance between the first observed value and the target. Samples where
// that distance is zero are skipped.
type Overshoot struct {
	start   float64
	started bool
	peak    float64
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(s sim.Sample) {
	if !o.started {
		o.start = s.Value
		o.started = true
	}
	span := s.Target - o.start
	if math.Abs(span) < 1e-12 {
		return
	}
	o.peak = math.Max(o.peak, (s.Value-s.Target)/span)
}

func (o *Overshoot) Value() float64 { return o.peak }

func (o *Overshoot) Reset() { *o = Overshoot{} }

// SettlingTime reports the time of the last sample outside a band around
// the target. The band is a fraction of the initial distance to the target,
// or absolute when that distance is zero. A response that never settles
// reports the time of the final sample.
type SettlingTime struct {
	band    float64
	start   float64
	started bool
	lastOut float64
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{band: band}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(smp sim.Sample) {
	if !s.started {
		s.start = smp.Value
		s.started = true
	}
	scale := math.Abs(smp.Target - s.start)
	if scale < 1e-12 {
		scale = 1
	}
	err := math.Abs(smp.Value - smp.Target)
	if !(err <= s.band*scale) {
		s.lastOut = smp.T
	}
}

func (s *SettlingTime) Value() float64 { return s.lastOut }

func (s *SettlingTime) Reset() {
	s.started = false
	s.start = 0
	s.lastOut = 0
}

// TrackingError is the RMS difference between value and target.
type TrackingError struct {
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError { return &TrackingError{} }

func (e *TrackingError) Name() string { return "tracking_error" }

func (e *TrackingError) Observe(s sim.Sample) {
	d := s.Value - s.Target
	e.sumSq += d * d
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sumSq = 0
	e.samples = 0
}

type Peak struct {
	max float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(s sim.Sample) { p.max = math.Max(p.max, math.Abs(s.Value)) }

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max = 0 }
