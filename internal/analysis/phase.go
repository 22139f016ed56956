package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/damper/internal/sim"
)

// Point is one sample in the error phase plane: X is value-target, Y the
// filter velocity.
type Point struct{ X, Y float64 }

func PhasePortrait(samples []sim.Sample) []Point {
	pts := make([]Point, len(samples))
	for i, s := range samples {
		pts[i] = Point{X: s.Value - s.Target, Y: s.Velocity}
	}
	return pts
}

// halfCycles splits the tracking error at its sign changes and returns the
// extremum of every completed segment.
func halfCycles(samples []sim.Sample) []float64 {
	var peaks []float64
	cur, sign := 0.0, 0
	for _, s := range samples {
		e := s.Value - s.Target
		if e == 0 {
			continue
		}
		sg := 1
		if e < 0 {
			sg = -1
		}
		if sign != 0 && sg != sign {
			peaks = append(peaks, cur)
			cur = 0
		}
		sign = sg
		if math.Abs(e) > math.Abs(cur) {
			cur = e
		}
	}
	return peaks
}

// Crossings counts how often the value crosses the target.
func Crossings(samples []sim.Sample) int {
	return len(halfCycles(samples))
}

// RenderPhase draws the portrait as ASCII, origin marked with '+'.
func RenderPhase(pts []Point, width, height int) string {
	if width < 3 || height < 3 {
		return ""
	}
	grid := make([][]byte, height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", width))
	}

	maxX, maxY := 1e-12, 1e-12
	for _, p := range pts {
		maxX = math.Max(maxX, math.Abs(p.X))
		maxY = math.Max(maxY, math.Abs(p.Y))
	}

	cx, cy := width/2, height/2
	grid[cy][cx] = '+'
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		col := cx + int(math.Round(p.X/maxX*float64(width/2-1)))
		row := cy - int(math.Round(p.Y/maxY*float64(height/2-1)))
		if row >= 0 && row < height && col >= 0 && col < width && grid[row][col] != '+' {
			grid[row][col] = '*'
		}
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}
