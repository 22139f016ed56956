package dynamo

import (
	"fmt"
	"math"
)

// Regime tells which branch of a policy produced a set of coefficients.
type Regime int

const (
	// RegimeClamped keeps k1 and clamps k2 from below.
	RegimeClamped Regime = iota
	// RegimePoleMatched discretizes so the sampled poles match the
	// continuous system exactly.
	RegimePoleMatched
)

func (r Regime) String() string {
	switch r {
	case RegimeClamped:
		return "clamped"
	case RegimePoleMatched:
		return "pole-matched"
	default:
		return fmt.Sprintf("regime(%d)", int(r))
	}
}

// Coefficients are the per-step effective k1 and k2. K2 is always > 0.
type Coefficients struct {
	K1     float64
	K2     float64
	Regime Regime
}

// Policy turns cached constants and a time step into step coefficients.
type Policy interface {
	Name() string
	Coefficients(c Constants, dt float64) (Coefficients, error)
}

const (
	PoleMatchingName = "pole-matching"
	SimpleName       = "simple"
)

// PoleMatching clamps k2 while the step is short compared with the filter
// (omega*dt < zeta) and switches to pole matching once it is not.
type PoleMatching struct{}

func (PoleMatching) Name() string { return PoleMatchingName }

func (PoleMatching) Coefficients(c Constants, dt float64) (Coefficients, error) {
	if !validDt(dt) {
		return Coefficients{}, ErrNumericDegenerate
	}

	if c.Omega*dt < c.Zeta {
		k2 := math.Max(c.K2, math.Max(dt*dt/2+dt*c.K1/2, dt*c.K1))
		return checked(Coefficients{K1: c.K1, K2: k2, Regime: RegimeClamped})
	}

	zw := c.Zeta * c.Omega * dt
	t1 := math.Exp(-zw)
	beta := t1 * t1

	// denom is 1 + beta - alpha with alpha = 2*t1*cos(d*dt) or
	// 2*t1*cosh(d*dt), rearranged to avoid cancellation and overflow.
	var denom float64
	if c.Zeta <= 1 {
		oneMinusT1 := -math.Expm1(-zw)
		s := math.Sin(dt * c.DampedDecay / 2)
		denom = oneMinusT1*oneMinusT1 + 4*t1*s*s
	} else {
		dd := dt * c.DampedDecay
		alpha := math.Exp(-zw+dd) + math.Exp(-zw-dd)
		denom = 1 + beta - alpha
	}

	t2 := dt / denom
	return checked(Coefficients{
		K1:     -math.Expm1(-2*zw) * t2,
		K2:     dt * t2,
		Regime: RegimePoleMatched,
	})
}

// Simple is the single-regime heuristic clamp
// k2 = max(k2, 1.1*(dt^2/4 + dt*k1/2)). It never pole-matches, so coarse
// steps on fast filters bend the response more than PoleMatching does.
type Simple struct{}

func (Simple) Name() string { return SimpleName }

func (Simple) Coefficients(c Constants, dt float64) (Coefficients, error) {
	if !validDt(dt) {
		return Coefficients{}, ErrNumericDegenerate
	}
	k2 := math.Max(c.K2, 1.1*(dt*dt/4+dt*c.K1/2))
	return checked(Coefficients{K1: c.K1, K2: k2, Regime: RegimeClamped})
}

// PolicyByName resolves a policy from configuration. The empty name selects
// PoleMatching.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", PoleMatchingName:
		return PoleMatching{}, nil
	case SimpleName:
		return Simple{}, nil
	default:
		return nil, fmt.Errorf("unknown stability policy: %s", name)
	}
}

// PolicyNames lists the names accepted by PolicyByName.
func PolicyNames() []string {
	return []string{PoleMatchingName, SimpleName}
}

func validDt(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 0)
}

func checked(k Coefficients) (Coefficients, error) {
	if !(k.K2 > 0) || math.IsInf(k.K2, 0) || math.IsNaN(k.K1) || math.IsInf(k.K1, 0) {
		return Coefficients{}, ErrNumericDegenerate
	}
	return k, nil
}
