package dynamo

import "math"

// Params are the physical tuning knobs of a damper.
//
// Frequency is the natural frequency in Hz and must be positive. Damping is
// the damping ratio: 0 never settles, below 1 rings, 1 is critically damped,
// above 1 is sluggish. Response shapes the initial reaction: 0 eases in,
// above 1 overshoots, below 0 anticipates by moving away first.
type Params struct {
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Damping   float64 `yaml:"damping" json:"damping"`
	Response  float64 `yaml:"response" json:"response"`
}

// Critical is a 1 Hz critically damped response with no anticipation.
var Critical = Params{Frequency: 1, Damping: 1, Response: 0}

func (p Params) Validate() error {
	if math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) || p.Frequency <= 0 {
		return &ParamError{Name: "frequency", Value: p.Frequency}
	}
	if math.IsNaN(p.Damping) || math.IsInf(p.Damping, 0) || p.Damping < 0 {
		return &ParamError{Name: "damping", Value: p.Damping}
	}
	if math.IsNaN(p.Response) || math.IsInf(p.Response, 0) {
		return &ParamError{Name: "response", Value: p.Response}
	}
	return nil
}

// Constants are derived from Params and cached by the damper. They are
// always recomputed together.
type Constants struct {
	Omega       float64 // natural angular frequency, 2*pi*f
	Zeta        float64 // damping ratio
	DampedDecay float64 // omega*sqrt(|zeta^2-1|)
	K1          float64
	K2          float64
	K3          float64
}

// Derive maps Params to the coefficients of k2*y” + k1*y' + y = x + k3*x'.
func Derive(p Params) (Constants, error) {
	if err := p.Validate(); err != nil {
		return Constants{}, err
	}

	f, z, r := p.Frequency, p.Damping, p.Response
	w := 2 * math.Pi * f

	return Constants{
		Omega:       w,
		Zeta:        z,
		DampedDecay: w * math.Sqrt(math.Abs(z*z-1)),
		K1:          z / (math.Pi * f),
		K2:          1 / (w * w),
		K3:          r * z / w,
	}, nil
}
