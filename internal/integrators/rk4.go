package integrators

import "github.com/san-kum/damper/internal/sim"

// RK4 is the classic fourth-order Runge-Kutta method. Stage buffers are
// reused between calls, so an RK4 value must not be shared across
// goroutines.
type RK4 struct {
	stages  [4]sim.State
	scratch sim.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.stages {
		r.stages[i] = make(sim.State, n)
	}
	r.scratch = make(sim.State, n)
}

// stage evaluates the derivative at x + h*prev into dst.
func (r *RK4) stage(dst sim.State, dyn sim.Dynamics, x, prev sim.State, u sim.Control, t, h float64) {
	for i := range x {
		r.scratch[i] = x[i] + h*prev[i]
	}
	copy(dst, dyn.Derivative(r.scratch, u, t+h))
}

func (r *RK4) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	n := len(x)
	r.ensureScratch(n)
	k := &r.stages

	copy(k[0], dyn.Derivative(x, u, t))
	r.stage(k[1], dyn, x, k[0], u, t, dt/2)
	r.stage(k[2], dyn, x, k[1], u, t, dt/2)
	r.stage(k[3], dyn, x, k[2], u, t, dt)

	out := make(sim.State, n)
	dt6 := dt / 6
	for i := 0; i < n; i++ {
		out[i] = x[i] + dt6*(k[0][i]+2*k[1][i]+2*k[2][i]+k[3][i])
	}
	return out
}
