package analysis

import (
	"math"

	"github.com/san-kum/damper/internal/sim"
)

// EstimateDamping recovers the damping ratio of a ringing response from
// the logarithmic decrement between successive half-cycle peaks of the
// tracking error. Peaks below 1e-3 of the first are ignored as noise. ok
// is false when fewer than two usable peaks exist.
func EstimateDamping(samples []sim.Sample) (zeta float64, ok bool) {
	peaks := halfCycles(samples)
	if len(peaks) < 2 {
		return 0, false
	}

	floor := 1e-3 * math.Abs(peaks[0])
	sum, n := 0.0, 0
	for i := 1; i < len(peaks); i++ {
		a, b := math.Abs(peaks[i-1]), math.Abs(peaks[i])
		if b <= floor {
			break
		}
		sum += math.Log(a / b)
		n++
	}
	if n == 0 {
		return 0, false
	}

	d := sum / float64(n)
	return d / math.Sqrt(math.Pi*math.Pi+d*d), true
}
