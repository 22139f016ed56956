package dynamo

import (
	"errors"
	"fmt"

	"github.com/san-kum/damper/internal/algebra"
)

// ErrUnconfigured is returned when stepping a zero Damper that was never
// built by New.
var ErrUnconfigured = errors.New("dynamo: damper not configured")

// Damper smooths a signal of type T toward a moving target with a
// second-order response. A Damper is owned by one caller; steps must not
// overlap.
type Damper[T any] struct {
	alg    algebra.Algebra[T]
	check  algebra.Checker[T]
	shape  algebra.Shaper[T]
	policy Policy
	params Params
	consts Constants

	value     T
	velocity  T
	prevInput T
	steps     int
}

// New configures a damper at rest on x0.
func New[T any](alg algebra.Algebra[T], p Params, x0 T) (*Damper[T], error) {
	return NewWithVelocity(alg, p, x0, algebra.Zero(alg, x0))
}

// NewWithVelocity configures a damper at x0 already moving with v0.
func NewWithVelocity[T any](alg algebra.Algebra[T], p Params, x0, v0 T) (*Damper[T], error) {
	consts, err := Derive(p)
	if err != nil {
		return nil, err
	}

	d := &Damper[T]{
		alg:       alg,
		policy:    PoleMatching{},
		params:    p,
		consts:    consts,
		value:     x0,
		velocity:  v0,
		prevInput: x0,
	}
	if sh, ok := alg.(algebra.Shaper[T]); ok {
		d.shape = sh
		if !sh.SameShape(x0, v0) {
			return nil, fmt.Errorf("%w: initial value and velocity", ErrShapeMismatch)
		}
	}
	if chk, ok := alg.(algebra.Checker[T]); ok {
		d.check = chk
		if !chk.Finite(x0) || !chk.Finite(v0) {
			return nil, fmt.Errorf("%w: initial state is not finite", ErrInvalidParameter)
		}
	}
	return d, nil
}

func NewScalar(p Params, x0 float64) (*Damper[float64], error) {
	return New[float64](algebra.Scalar{}, p, x0)
}

func NewVec3(p Params, x0 algebra.Vec3) (*Damper[algebra.Vec3], error) {
	return New[algebra.Vec3](algebra.Vec3Algebra{}, p, x0)
}

// NewQuat filters an orientation as a raw 4-tuple. Outputs are not
// renormalized; call Quat.Normalize on the result when a rotation is needed.
func NewQuat(p Params, x0 algebra.Quat) (*Damper[algebra.Quat], error) {
	return New[algebra.Quat](algebra.QuatAlgebra{}, p, x0)
}

// NewVector filters every component of an arbitrary-length vector with the
// same parameters. Targets of any other length are rejected with
// ErrShapeMismatch; Reset may change the length. The returned values share
// storage with the damper and must be cloned before being modified.
func NewVector(p Params, x0 algebra.Vector) (*Damper[algebra.Vector], error) {
	return New[algebra.Vector](algebra.VectorAlgebra{}, p, x0.Clone())
}

// Reconfigure replaces the parameters and all derived constants at once.
// On error the damper keeps its previous configuration.
func (d *Damper[T]) Reconfigure(p Params) error {
	consts, err := Derive(p)
	if err != nil {
		return err
	}
	d.params = p
	d.consts = consts
	return nil
}

func (d *Damper[T]) SetFrequency(f float64) error {
	p := d.params
	p.Frequency = f
	return d.Reconfigure(p)
}

func (d *Damper[T]) SetDamping(z float64) error {
	p := d.params
	p.Damping = z
	return d.Reconfigure(p)
}

func (d *Damper[T]) SetResponse(r float64) error {
	p := d.params
	p.Response = r
	return d.Reconfigure(p)
}

// SetPolicy swaps the stability policy. A nil policy restores PoleMatching.
func (d *Damper[T]) SetPolicy(p Policy) {
	if p == nil {
		p = PoleMatching{}
	}
	d.policy = p
}

// Reset puts the damper at rest on x0 without touching its parameters.
func (d *Damper[T]) Reset(x0 T) {
	d.value = x0
	d.velocity = algebra.Zero(d.alg, x0)
	d.prevInput = x0
	d.steps = 0
}

// Update advances the damper by dt toward target and returns the new value.
//
// The target velocity is estimated by backward difference against the
// previous input. That estimate is biased and amplifies input noise as dt
// shrinks; callers that know the derivative should use UpdateWithVelocity.
//
// On error the state is left untouched and the current value is returned.
func (d *Damper[T]) Update(dt float64, target T) (T, error) {
	if err := d.ready(dt, target); err != nil {
		return d.value, err
	}
	xd := d.alg.Div(d.alg.Sub(target, d.prevInput), dt)
	return d.step(dt, target, xd)
}

// UpdateWithVelocity is Update with a caller-supplied target velocity.
//
// The target is still recorded as the previous input, so a later Update
// differences against this call's target rather than an older one.
func (d *Damper[T]) UpdateWithVelocity(dt float64, target, targetVelocity T) (T, error) {
	if err := d.ready(dt, target, targetVelocity); err != nil {
		return d.value, err
	}
	return d.step(dt, target, targetVelocity)
}

func (d *Damper[T]) ready(dt float64, inputs ...T) error {
	if d.alg == nil {
		return ErrUnconfigured
	}
	if !validDt(dt) {
		return &StepError{Step: d.steps + 1, Dt: dt, Wrapped: ErrInvalidTimestep}
	}
	if d.shape != nil {
		for _, v := range inputs {
			if !d.shape.SameShape(d.value, v) {
				return &StepError{Step: d.steps + 1, Dt: dt, Wrapped: ErrShapeMismatch}
			}
		}
	}
	return nil
}

func (d *Damper[T]) step(dt float64, x, xd T) (T, error) {
	k, err := d.policy.Coefficients(d.consts, dt)
	if err != nil {
		return d.value, &StepError{Step: d.steps + 1, Dt: dt, Wrapped: err}
	}

	alg := d.alg

	// Semi-implicit Euler: the velocity update sees the advanced position.
	y := alg.Add(d.value, alg.Scale(d.velocity, dt))
	accel := alg.Sub(alg.Sub(alg.Add(x, alg.Scale(xd, d.consts.K3)), y), alg.Scale(d.velocity, k.K1))
	yd := alg.Add(d.velocity, alg.Div(alg.Scale(accel, dt), k.K2))

	if d.check != nil && (!d.check.Finite(y) || !d.check.Finite(yd)) {
		return d.value, &StepError{Step: d.steps + 1, Dt: dt, Wrapped: ErrNumericDegenerate}
	}

	d.value = y
	d.velocity = yd
	d.prevInput = x
	d.steps++
	return y, nil
}

func (d *Damper[T]) Value() T             { return d.value }
func (d *Damper[T]) Velocity() T          { return d.velocity }
func (d *Damper[T]) Params() Params       { return d.params }
func (d *Damper[T]) Constants() Constants { return d.consts }
func (d *Damper[T]) Policy() Policy       { return d.policy }
func (d *Damper[T]) Steps() int           { return d.steps }
