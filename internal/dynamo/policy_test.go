package dynamo

import (
	"errors"
	"math"
	"testing"
)

func mustDerive(t *testing.T, p Params) Constants {
	t.Helper()
	c, err := Derive(p)
	if err != nil {
		t.Fatalf("derive %+v: %v", p, err)
	}
	return c
}

// naivePoleMatch is the textbook form of the fast regime.
func naivePoleMatch(c Constants, dt float64) (k1, k2 float64) {
	t1 := math.Exp(-c.Zeta * c.Omega * dt)
	var alpha float64
	if c.Zeta <= 1 {
		alpha = 2 * t1 * math.Cos(dt*c.DampedDecay)
	} else {
		alpha = 2 * t1 * math.Cosh(dt*c.DampedDecay)
	}
	beta := t1 * t1
	t2 := dt / (1 + beta - alpha)
	return (1 - beta) * t2, dt * t2
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Max(math.Abs(want), 1e-300)
}

func TestPoleMatching_RegimeSelection(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		dt     float64
		regime Regime
	}{
		{"slow filter small step", Params{Frequency: 1, Damping: 1}, 1.0 / 60, RegimeClamped},
		{"fast filter", Params{Frequency: 10, Damping: 0.5}, 0.05, RegimePoleMatched},
		{"undamped always pole-matched", Params{Frequency: 1, Damping: 0}, 1e-4, RegimePoleMatched},
		{"overdamped coarse step", Params{Frequency: 2, Damping: 3}, 0.5, RegimePoleMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := PoleMatching{}.Coefficients(mustDerive(t, tt.params), tt.dt)
			if err != nil {
				t.Fatalf("coefficients: %v", err)
			}
			if k.Regime != tt.regime {
				t.Errorf("regime = %v, want %v", k.Regime, tt.regime)
			}
		})
	}
}

func TestPoleMatching_ClampedRegime(t *testing.T) {
	c := mustDerive(t, Params{Frequency: 1, Damping: 1})
	k, err := PoleMatching{}.Coefficients(c, 1.0/60)
	if err != nil {
		t.Fatal(err)
	}
	if k.K1 != c.K1 {
		t.Errorf("K1 = %v, want k1 = %v", k.K1, c.K1)
	}
	if k.K2 != c.K2 {
		t.Errorf("K2 = %v, want unclamped k2 = %v", k.K2, c.K2)
	}

	// Large damping makes the dt*k1 bound dominate.
	c = mustDerive(t, Params{Frequency: 0.1, Damping: 50})
	dt := 0.5
	k, err = PoleMatching{}.Coefficients(c, dt)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Max(c.K2, math.Max(dt*dt/2+dt*c.K1/2, dt*c.K1))
	if k.Regime != RegimeClamped || k.K2 != want {
		t.Errorf("got %+v, want clamped K2 = %v", k, want)
	}
}

func TestPoleMatching_MatchesTextbookForm(t *testing.T) {
	for _, f := range []float64{0.5, 1, 3} {
		for _, z := range []float64{0.05, 0.3, 0.99, 1, 1.01, 2, 5} {
			for _, dt := range []float64{0.05, 0.1, 0.5, 1} {
				c := mustDerive(t, Params{Frequency: f, Damping: z})
				k, err := PoleMatching{}.Coefficients(c, dt)
				if err != nil {
					t.Fatalf("f=%v z=%v dt=%v: %v", f, z, dt, err)
				}
				if k.Regime != RegimePoleMatched {
					continue
				}
				k1, k2 := naivePoleMatch(c, dt)
				if relErr(k.K1, k1) > 1e-9 || relErr(k.K2, k2) > 1e-9 {
					t.Errorf("f=%v z=%v dt=%v: got (%v, %v), want (%v, %v)", f, z, dt, k.K1, k.K2, k1, k2)
				}
			}
		}
	}
}

func TestPolicies_K2AlwaysPositive(t *testing.T) {
	freqs := []float64{0.01, 0.1, 1, 10, 100, 1000}
	dampings := []float64{0, 0.001, 0.1, 0.5, 1, 2, 10, 100}
	dts := []float64{1e-6, 1e-4, 1e-3, 1.0 / 60, 0.1, 1, 10}

	for _, pol := range []Policy{PoleMatching{}, Simple{}} {
		for _, f := range freqs {
			for _, z := range dampings {
				c := mustDerive(t, Params{Frequency: f, Damping: z})
				steps := append([]float64{}, dts...)
				if z > 0 {
					// the regime switch point omega*dt == zeta
					steps = append(steps, z/c.Omega)
				}
				for _, dt := range steps {
					k, err := pol.Coefficients(c, dt)
					if err != nil {
						t.Errorf("%s f=%v z=%v dt=%v: unexpected error %v", pol.Name(), f, z, dt, err)
						continue
					}
					if !(k.K2 > 0) || math.IsInf(k.K2, 0) || math.IsNaN(k.K1) {
						t.Errorf("%s f=%v z=%v dt=%v: bad coefficients %+v", pol.Name(), f, z, dt, k)
					}
				}
			}
		}
	}
}

func TestPoleMatching_RegimeSwitch(t *testing.T) {
	for _, z := range []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 10} {
		c := mustDerive(t, Params{Frequency: 2, Damping: z})
		boundary := z / c.Omega

		slow, err := PoleMatching{}.Coefficients(c, boundary*(1-1e-9))
		if err != nil {
			t.Fatal(err)
		}
		fast, err := PoleMatching{}.Coefficients(c, boundary*(1+1e-9))
		if err != nil {
			t.Fatal(err)
		}
		if slow.Regime != RegimeClamped || fast.Regime != RegimePoleMatched {
			t.Fatalf("z=%v: regimes %v/%v around the switch point", z, slow.Regime, fast.Regime)
		}

		r1 := fast.K1 / slow.K1
		r2 := fast.K2 / slow.K2
		// Crossing into pole matching never softens the step and never jumps
		// by more than ~2/3.
		if r1 < 1-1e-6 || r1 > 1.7 || r2 < 1-1e-6 || r2 > 1.7 {
			t.Errorf("z=%v: coefficient jump k1 x%.4f, k2 x%.4f", z, r1, r2)
		}
		if z <= 0.05 && (r1 > 1.003 || r2 > 1.003) {
			t.Errorf("z=%v: lightly damped switch should be nearly continuous, got k1 x%.5f, k2 x%.5f", z, r1, r2)
		}
	}
}

func TestPolicies_RejectBadTimestep(t *testing.T) {
	c := mustDerive(t, Critical)
	for _, pol := range []Policy{PoleMatching{}, Simple{}} {
		for _, dt := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
			if _, err := pol.Coefficients(c, dt); !errors.Is(err, ErrNumericDegenerate) {
				t.Errorf("%s dt=%v: expected ErrNumericDegenerate, got %v", pol.Name(), dt, err)
			}
		}
	}
}

func TestSimple_Clamp(t *testing.T) {
	c := mustDerive(t, Critical)

	k, err := Simple{}.Coefficients(c, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if k.K2 != c.K2 {
		t.Errorf("small step: K2 = %v, want k2 = %v", k.K2, c.K2)
	}

	dt := 0.5
	k, err = Simple{}.Coefficients(c, dt)
	if err != nil {
		t.Fatal(err)
	}
	want := 1.1 * (dt*dt/4 + dt*c.K1/2)
	if math.Abs(k.K2-want) > 1e-15 {
		t.Errorf("large step: K2 = %v, want %v", k.K2, want)
	}
	if k.K1 != c.K1 {
		t.Errorf("K1 = %v, want %v", k.K1, c.K1)
	}
}

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"", PoleMatchingName, true},
		{"pole-matching", PoleMatchingName, true},
		{"simple", SimpleName, true},
		{"rk4", "", false},
	}
	for _, tt := range tests {
		p, err := PolicyByName(tt.name)
		if tt.ok != (err == nil) {
			t.Errorf("PolicyByName(%q) error = %v", tt.name, err)
			continue
		}
		if tt.ok && p.Name() != tt.want {
			t.Errorf("PolicyByName(%q) = %s, want %s", tt.name, p.Name(), tt.want)
		}
	}
	if len(PolicyNames()) != 2 {
		t.Errorf("PolicyNames() = %v", PolicyNames())
	}
}
