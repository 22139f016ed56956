package filters

import (
	"fmt"
	"math"

	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/integrators"
	"github.com/san-kum/damper/internal/physics"
	"github.com/san-kum/damper/internal/sim"
)

const DefaultSubsteps = 32

// Reference integrates the continuous second-order system with a fine
// sub-step, holding the target constant over each outer step. It is the
// yardstick the damper is compared against, not a filter for production
// use: with the euler method, large outer steps need many substeps.
type Reference struct {
	sys      *physics.SecondOrder
	integ    sim.Integrator
	method   string
	substeps int
	x        sim.State
	prev     float64
	t        float64
}

// NewReference builds a reference filter around the named integrator
// ("euler" or "rk4", empty selects rk4).
func NewReference(p dynamo.Params, method string, substeps int) (*Reference, error) {
	sys, err := physics.NewSecondOrder(p)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = "rk4"
	}
	integ, err := integrators.ByName(method)
	if err != nil {
		return nil, err
	}
	if substeps <= 0 {
		substeps = DefaultSubsteps
	}
	return &Reference{sys: sys, integ: integ, method: method, substeps: substeps, x: sim.State{0, 0}}, nil
}

func (r *Reference) Name() string { return KindReference + "/" + r.method }

func (r *Reference) Reset(x0 float64) {
	r.x = sim.State{x0, 0}
	r.prev = x0
	r.t = 0
}

func (r *Reference) Step(dt, target float64, targetVel *float64) (float64, float64, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return r.x[0], r.x[1], fmt.Errorf("%w: dt=%g", dynamo.ErrInvalidTimestep, dt)
	}

	xd := (target - r.prev) / dt
	if targetVel != nil {
		xd = *targetVel
	}
	u := sim.Control{target, xd}

	h := dt / float64(r.substeps)
	x := r.x
	for i := 0; i < r.substeps; i++ {
		x = r.integ.Step(r.sys, x, u, r.t+float64(i)*h, h)
	}
	if !x.IsValid() {
		return r.x[0], r.x[1], fmt.Errorf("%w: reference state diverged", dynamo.ErrNumericDegenerate)
	}

	r.x = x
	r.prev = target
	r.t += dt
	return x[0], x[1], nil
}
