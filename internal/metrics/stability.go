package metrics

import (
	"math"

	"github.com/san-kum/damper/internal/sim"
)

// Stability is the fraction of samples whose value and velocity are finite
// and whose value lies within threshold of zero.
type Stability struct {
	threshold  float64
	bad, total int
	firstBad   float64
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold, firstBad: math.Inf(1)}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(smp sim.Sample) {
	s.total++
	if bounded(smp.Value, s.threshold) && bounded(smp.Velocity, math.Inf(1)) {
		return
	}
	if s.bad == 0 {
		s.firstBad = smp.T
	}
	s.bad++
}

func (s *Stability) Value() float64 {
	if s.total == 0 {
		return 1
	}
	return 1 - float64(s.bad)/float64(s.total)
}

// FirstViolation is the time of the first rejected sample, +Inf if none.
func (s *Stability) FirstViolation() float64 { return s.firstBad }

func (s *Stability) Reset() {
	*s = Stability{threshold: s.threshold, firstBad: math.Inf(1)}
}

func bounded(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= limit
}
