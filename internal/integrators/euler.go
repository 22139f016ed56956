package integrators

import "github.com/san-kum/damper/internal/sim"

// Euler is the explicit first-order method. It is only conditionally stable
// and serves as a contrast to the damper's semi-implicit update.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t float64, dt float64) sim.State {
	return x.Axpy(dt, dyn.Derivative(x, u, t))
}
