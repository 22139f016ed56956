package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/damper/internal/sim"
)

const (
	DefaultHeight = 10
	DefaultWidth  = 80
)

// PlotResponse draws the target and the filtered value of a run on one
// chart. Non-finite samples are clamped to the last finite value so that a
// diverged run still renders.
func (s Styles) PlotResponse(samples []sim.Sample, caption string, width, height int) string {
	if len(samples) == 0 {
		return s.Muted.Render("no samples")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	target := make([]float64, len(samples))
	value := make([]float64, len(samples))
	for i, smp := range samples {
		target[i] = smp.Target
		value[i] = smp.Value
	}
	sanitize(target)
	sanitize(value)

	return asciigraph.PlotMany([][]float64{target, value},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(s.Theme.TargetCurve, s.Theme.ValueCurve),
		asciigraph.Caption(fmt.Sprintf("%s (target, value)", caption)),
	)
}

// PlotSeries draws a single series, such as a power spectrum or velocity.
func (s Styles) PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return s.Muted.Render("no data")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	cp := append([]float64(nil), data...)
	sanitize(cp)
	return asciigraph.Plot(cp,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(s.Theme.ValueCurve),
		asciigraph.Caption(caption),
	)
}

func sanitize(data []float64) {
	last := 0.0
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = last
			continue
		}
		last = v
	}
}
