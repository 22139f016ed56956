package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/damper/internal/sim"
)

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("")
	if err != nil || th.Name != "default" {
		t.Fatalf("empty name: got %q, %v", th.Name, err)
	}
	for _, name := range ThemeNames() {
		if _, err := ThemeByName(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestMetricsTable(t *testing.T) {
	out := Default.MetricsTable(map[string]float64{
		"overshoot":      0.0712,
		"tracking_error": math.NaN(),
	})
	for _, want := range []string{"METRIC", "overshoot", "0.071200", "tracking_error", "NaN"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "overshoot") > strings.Index(out, "tracking_error") {
		t.Error("rows not sorted by name")
	}
}

func TestPlotResponse(t *testing.T) {
	samples := make([]sim.Sample, 50)
	for i := range samples {
		tt := float64(i) * 0.02
		samples[i] = sim.Sample{T: tt, Target: 1, Value: 1 - math.Exp(-5*tt)}
	}
	samples[10].Value = math.NaN()

	out := Default.PlotResponse(samples, "step", 40, 8)
	if !strings.Contains(out, "step (target, value)") {
		t.Errorf("caption missing:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 8 {
		t.Errorf("expected at least 8 lines, got %d", lines)
	}
}

func TestPlotEmpty(t *testing.T) {
	if out := Default.PlotResponse(nil, "x", 0, 0); !strings.Contains(out, "no samples") {
		t.Errorf("got %q", out)
	}
	if out := Default.PlotSeries(nil, "x", 0, 0); !strings.Contains(out, "no data") {
		t.Errorf("got %q", out)
	}
}

func TestSparkline(t *testing.T) {
	out := Default.Sparkline([]float64{0, 1, 2, 3, math.Inf(1)}, 5)
	if !strings.ContainsRune(out, '▁') || !strings.ContainsRune(out, '█') {
		t.Errorf("sparkline missing extremes: %q", out)
	}
	if !strings.Contains(out, "!") {
		t.Errorf("non-finite value not marked: %q", out)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.500000"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
