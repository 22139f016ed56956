package config

import (
	"sort"

	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/signal"
)

var Presets = map[string]*Config{
	"critical": {
		Filter: "damper", Dt: 1.0 / 60, Duration: 3,
		Params: dynamo.Params{Frequency: 1, Damping: 1},
		Signal: signal.Spec{Kind: "step", Amplitude: 1, Start: 0.1},
	},
	"bouncy": {
		Filter: "damper", Dt: 1.0 / 60, Duration: 4,
		Params: dynamo.Params{Frequency: 2, Damping: 0.2},
		Signal: signal.Spec{Kind: "step", Amplitude: 1, Start: 0.1},
	},
	"overshoot": {
		Filter: "damper", Dt: 1.0 / 60, Duration: 3,
		Params: dynamo.Params{Frequency: 1, Damping: 0.5, Response: 2},
		Signal: signal.Spec{Kind: "step", Amplitude: 1, Start: 0.1},
	},
	"anticipate": {
		Filter: "damper", Dt: 1.0 / 60, Duration: 4,
		Params: dynamo.Params{Frequency: 1.5, Damping: 0.8, Response: -1},
		Signal: signal.Spec{Kind: "square", Amplitude: 1, Frequency: 0.5},
	},
	"camera": {
		Filter: "damper", Dt: 1.0 / 144, Duration: 5,
		Params: dynamo.Params{Frequency: 2, Damping: 1},
		Signal: signal.Spec{Kind: "sine", Amplitude: 2, Frequency: 0.3, Hold: 0.1, Noise: 0.05},
	},
	"tracking": {
		Filter: "damper", Dt: 1.0 / 60, Duration: 5, ExactVelocity: true,
		Params: dynamo.Params{Frequency: 2, Damping: 1, Response: 1},
		Signal: signal.Spec{Kind: "ramp", Slope: 1, Start: 0.5},
	},
	"stiff": {
		Filter: "damper", Dt: 1.0 / 30, Duration: 2,
		Params: dynamo.Params{Frequency: 60, Damping: 1, Response: 2},
		Signal: signal.Spec{Kind: "square", Amplitude: 1, Frequency: 1},
	},
	"undamped": {
		Filter: "damper", Dt: 1.0 / 60, Duration: 5,
		Params: dynamo.Params{Frequency: 1, Damping: 0},
		Signal: signal.Spec{Kind: "step", Amplitude: 1},
	},
	"reference": {
		Filter: "reference", Integrator: "rk4", Substeps: 64, Dt: 1.0 / 60, Duration: 3,
		Params: dynamo.Params{Frequency: 1, Damping: 0.5, Response: 2},
		Signal: signal.Spec{Kind: "step", Amplitude: 1, Start: 0.1},
	},
	"spring": {
		Filter: "harmonica", Dt: 1.0 / 60, Duration: 3,
		Params: dynamo.Params{Frequency: 1, Damping: 0.5},
		Signal: signal.Spec{Kind: "step", Amplitude: 1, Start: 0.1},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.Policy == "" {
		cfg.Policy = def.Policy
	}
	if cfg.Integrator == "" {
		cfg.Integrator = def.Integrator
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
