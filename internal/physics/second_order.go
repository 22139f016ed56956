package physics

import (
	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/sim"
)

// SecondOrder is the continuous system the damper discretizes:
//
//	k2*y'' + k1*y' + y = x + k3*x'
//
// State is {y, y'}; control is {x, x'}, held constant across a step.
type SecondOrder struct {
	c dynamo.Constants
}

func NewSecondOrder(p dynamo.Params) (*SecondOrder, error) {
	s := &SecondOrder{}
	if err := s.SetParams(p); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SecondOrder) SetParams(p dynamo.Params) error {
	c, err := dynamo.Derive(p)
	if err != nil {
		return err
	}
	s.c = c
	return nil
}

func (s *SecondOrder) Constants() dynamo.Constants { return s.c }

func (s *SecondOrder) StateDim() int   { return 2 }
func (s *SecondOrder) ControlDim() int { return 2 }

func (s *SecondOrder) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	var target, targetVel float64
	if len(u) > 0 {
		target = u[0]
	}
	if len(u) > 1 {
		targetVel = u[1]
	}
	y, yd := x[0], x[1]
	return sim.State{yd, (target + s.c.K3*targetVel - y - s.c.K1*yd) / s.c.K2}
}

// Energy is the Lyapunov function of the tracking error against a fixed
// target: 0.5*(e² + k2*y'²). It decays monotonically for z > 0 and
// constant input.
func (s *SecondOrder) Energy(x sim.State, target float64) float64 {
	e := x[0] - target
	return 0.5 * (e*e + s.c.K2*x[1]*x[1])
}
