package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/damper/internal/dynamo"
)

// hann applies a Hann window to data with its mean removed.
func hann(data []float64) []float64 {
	n := len(data)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	out := make([]float64, n)
	for i, v := range data {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		out[i] = (v - mean) * w
	}
	return out
}

// PowerSpectrum returns |X_k|² for k in [0, n/2] of the windowed,
// mean-removed signal. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(hann(data))
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin,
// or 0 when the signal is too short or flat. Resolution is 1/(n*dt).
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)
	best, bestPow := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPow {
			best, bestPow = k, ps[k]
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}

// DampedFrequency is the ringing frequency f*sqrt(1-z²) of an underdamped
// system, 0 when z >= 1.
func DampedFrequency(p dynamo.Params) float64 {
	if p.Damping >= 1 {
		return 0
	}
	return p.Frequency * math.Sqrt(1-p.Damping*p.Damping)
}
