// Package export renders recorded runs to SVG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/damper/internal/analysis"
	"github.com/san-kum/damper/internal/sim"
)

const (
	TargetColor = "#888888"
	ValueColor  = "#00ff00"
)

type bounds struct{ minX, maxX, minY, maxY float64 }

func (b *bounds) add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

// pad widens the box by 10% per side and guards against zero ranges.
func (b *bounds) pad() {
	rx, ry := b.maxX-b.minX, b.maxY-b.minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	b.minX -= rx * 0.1
	b.maxX += rx * 0.1
	b.minY -= ry * 0.1
	b.maxY += ry * 0.1
}

func newBounds() bounds {
	return bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// writePath draws one polyline, breaking it at non-finite points.
func writePath(sb *strings.Builder, xs, ys []float64, b bounds, width, height int, color string) {
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
	move := true
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			move = true
			continue
		}
		px := (x - b.minX) / (b.maxX - b.minX) * float64(width)
		py := float64(height) - (y-b.minY)/(b.maxY-b.minY)*float64(height)
		cmd := " L"
		if move {
			cmd = " M"
			move = false
		}
		fmt.Fprintf(sb, "%s%.1f,%.1f", cmd, px, py)
	}
	sb.WriteString("\"/>\n")
}

// SamplesToSVG plots target and value against time on shared axes.
func SamplesToSVG(samples []sim.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	b := newBounds()
	ts := make([]float64, len(samples))
	targets := make([]float64, len(samples))
	values := make([]float64, len(samples))
	for i, s := range samples {
		ts[i], targets[i], values[i] = s.T, s.Target, s.Value
		b.add(s.T, s.Target)
		b.add(s.T, s.Value)
	}
	if math.IsInf(b.minX, 0) {
		return ""
	}
	b.pad()

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writePath(&sb, ts, targets, b, width, height, TargetColor)
	writePath(&sb, ts, values, b, width, height, ValueColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// PhaseToSVG plots a phase portrait as a single trajectory.
func PhaseToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	b := newBounds()
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		b.add(p.X, p.Y)
	}
	if math.IsInf(b.minX, 0) {
		return ""
	}
	b.pad()

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writePath(&sb, xs, ys, b, width, height, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}
