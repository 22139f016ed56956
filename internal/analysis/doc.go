// Package analysis characterizes recorded filter responses.
//
//   - [PowerSpectrum], [DominantFrequency]: spectral content via go-dsp
//   - [DampedFrequency]: the analytical ringing frequency for comparison
//   - [EstimateDamping]: damping ratio from the logarithmic decrement
//   - [PhasePortrait], [RenderPhase]: error vs velocity plane
//
// A well-tuned underdamped damper rings at its damped frequency:
//
//	f := analysis.DominantFrequency(res.Values(), dt)
//	want := analysis.DampedFrequency(params)
package analysis
