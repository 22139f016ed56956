// Package metrics scores filter responses sample by sample.
package metrics

import "github.com/san-kum/damper/internal/sim"

const (
	DefaultSettlingBand       = 0.02
	DefaultStabilityThreshold = 1e6
)

// Default returns a fresh set of every metric. Metrics hold state, so each
// run needs its own set.
func Default() []sim.Metric {
	return []sim.Metric{
		NewOvershoot(),
		NewSettlingTime(DefaultSettlingBand),
		NewTrackingError(),
		NewStability(DefaultStabilityThreshold),
		NewPeak(),
		NewEffort(),
	}
}
