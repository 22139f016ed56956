package filters

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/damper/internal/dynamo"
)

// Spring is harmonica's damped spring. Its coefficients are fixed per step
// size, so a change of dt rebuilds them. It has no response term and
// ignores target velocity.
type Spring struct {
	omega, zeta float64
	spring      harmonica.Spring
	dt          float64
	pos, vel    float64
}

func NewSpring(p dynamo.Params) (*Spring, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Spring{omega: 2 * math.Pi * p.Frequency, zeta: p.Damping}, nil
}

// NewSpringFPS pre-builds the spring for a fixed frame rate.
func NewSpringFPS(p dynamo.Params, fps int) (*Spring, error) {
	s, err := NewSpring(p)
	if err != nil {
		return nil, err
	}
	s.rebuild(harmonica.FPS(fps))
	return s, nil
}

func (s *Spring) rebuild(dt float64) {
	s.spring = harmonica.NewSpring(dt, s.omega, s.zeta)
	s.dt = dt
}

func (s *Spring) Name() string { return KindHarmonica }

func (s *Spring) Reset(x0 float64) {
	s.pos = x0
	s.vel = 0
}

func (s *Spring) Step(dt, target float64, _ *float64) (float64, float64, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s.pos, s.vel, fmt.Errorf("%w: dt=%g", dynamo.ErrInvalidTimestep, dt)
	}
	if dt != s.dt {
		s.rebuild(dt)
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return s.pos, s.vel, nil
}
