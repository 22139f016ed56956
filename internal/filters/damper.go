package filters

import "github.com/san-kum/damper/internal/dynamo"

type Damper struct {
	d *dynamo.Damper[float64]
}

func NewDamper(p dynamo.Params, policy dynamo.Policy) (*Damper, error) {
	d, err := dynamo.NewScalar(p, 0)
	if err != nil {
		return nil, err
	}
	d.SetPolicy(policy)
	return &Damper{d: d}, nil
}

func (f *Damper) Name() string { return KindDamper + "/" + f.d.Policy().Name() }

func (f *Damper) Reset(x0 float64) { f.d.Reset(x0) }

func (f *Damper) Step(dt, target float64, targetVel *float64) (float64, float64, error) {
	var (
		y   float64
		err error
	)
	if targetVel != nil {
		y, err = f.d.UpdateWithVelocity(dt, target, *targetVel)
	} else {
		y, err = f.d.Update(dt, target)
	}
	return y, f.d.Velocity(), err
}

func (f *Damper) Engine() *dynamo.Damper[float64] { return f.d }
