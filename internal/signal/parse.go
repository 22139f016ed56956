package signal

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownKind = errors.New("signal: unknown kind")

// Spec describes a source in run files. Which fields apply depends on Kind;
// Hold and Noise wrap any kind.
type Spec struct {
	Kind      string  `yaml:"kind" json:"kind"`
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Offset    float64 `yaml:"offset" json:"offset"`
	Frequency float64 `yaml:"frequency" json:"frequency,omitempty"`
	Phase     float64 `yaml:"phase" json:"phase,omitempty"`
	Start     float64 `yaml:"start" json:"start,omitempty"`
	Slope     float64 `yaml:"slope" json:"slope,omitempty"`
	Hold      float64 `yaml:"hold" json:"hold,omitempty"`
	Noise     float64 `yaml:"noise" json:"noise,omitempty"`
}

func DefaultSpec() Spec {
	return Spec{Kind: "step", Amplitude: 1, Start: 0.1}
}

var builders = map[string]func(Spec) (Source, error){
	"constant": func(s Spec) (Source, error) {
		return Constant(s.Offset + s.Amplitude), nil
	},
	"step": func(s Spec) (Source, error) {
		return Step{Time: s.Start, From: s.Offset, To: s.Offset + s.Amplitude}, nil
	},
	"ramp": func(s Spec) (Source, error) {
		return Ramp{Start: s.Start, Slope: s.Slope, Offset: s.Offset}, nil
	},
	"sine": func(s Spec) (Source, error) {
		if s.Frequency <= 0 {
			return nil, fmt.Errorf("sine frequency must be positive, got %g", s.Frequency)
		}
		return Sine{Amplitude: s.Amplitude, Frequency: s.Frequency, Phase: s.Phase, Offset: s.Offset}, nil
	},
	"square": func(s Spec) (Source, error) {
		if s.Frequency <= 0 {
			return nil, fmt.Errorf("square frequency must be positive, got %g", s.Frequency)
		}
		return Square{Amplitude: s.Amplitude, Frequency: s.Frequency, Offset: s.Offset}, nil
	},
}

// Kinds lists the names accepted by Parse.
func Kinds() []string {
	names := make([]string, 0, len(builders))
	for k := range builders {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Parse builds the source described by spec. seed drives the noise wrapper.
func Parse(spec Spec, seed int64) (Source, error) {
	build, ok := builders[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	if spec.Hold < 0 {
		return nil, fmt.Errorf("hold period must be non-negative, got %g", spec.Hold)
	}
	if spec.Noise < 0 {
		return nil, fmt.Errorf("noise amplitude must be non-negative, got %g", spec.Noise)
	}

	src, err := build(spec)
	if err != nil {
		return nil, err
	}
	if spec.Hold > 0 {
		src = SampleHold{Source: src, Period: spec.Hold}
	}
	if spec.Noise > 0 {
		src = NewNoisy(src, spec.Noise, seed)
	}
	return src, nil
}
