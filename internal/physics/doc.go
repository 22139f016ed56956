// Package physics provides the continuous-time models behind the filters.
//
// [SecondOrder] implements [sim.Dynamics] for the damper's differential
// equation so it can be integrated with any [sim.Integrator] to obtain a
// reference response:
//
//	sys, _ := physics.NewSecondOrder(dynamo.Params{Frequency: 2, Damping: 0.5})
//	x := sim.State{0, 0}
//	x = integrators.NewRK4().Step(sys, x, sim.Control{1, 0}, 0, 1e-3)
package physics
