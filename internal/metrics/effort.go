package metrics

import (
	"math"

	"github.com/san-kum/damper/internal/sim"
)

// Effort is the mean absolute velocity of the filtered value.
type Effort struct {
	sum     float64
	samples int
}

func NewEffort() *Effort { return &Effort{} }

func (e *Effort) Name() string { return "effort" }

func (e *Effort) Observe(s sim.Sample) {
	e.sum += math.Abs(s.Velocity)
	e.samples++
}

func (e *Effort) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Effort) Reset() {
	e.sum = 0
	e.samples = 0
}
