package signal

import (
	"errors"
	"math"
	"testing"
)

func TestSources(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		t    float64
		want float64
	}{
		{"constant", Constant(3), 10, 3},
		{"step before", Step{Time: 1, From: 0, To: 2}, 0.5, 0},
		{"step at", Step{Time: 1, From: 0, To: 2}, 1, 2},
		{"ramp before", Ramp{Start: 1, Slope: 2, Offset: 1}, 0.5, 1},
		{"ramp after", Ramp{Start: 1, Slope: 2, Offset: 1}, 2, 3},
		{"sine quarter", Sine{Amplitude: 2, Frequency: 1}, 0.25, 2},
		{"sine offset", Sine{Amplitude: 1, Frequency: 1, Offset: 5}, 0, 5},
		{"square high", Square{Amplitude: 1, Frequency: 1}, 0.25, 1},
		{"square low", Square{Amplitude: 1, Frequency: 1}, 0.75, -1},
		{"hold", SampleHold{Source: Ramp{Slope: 1}, Period: 0.5}, 0.9, 0.5},
		{"hold without period", SampleHold{Source: Ramp{Slope: 1}}, 0.9, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.At(tt.t); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestDerivatives(t *testing.T) {
	s := Sine{Amplitude: 2, Frequency: 0.5}
	for _, ts := range []float64{0, 0.3, 1.1} {
		h := 1e-6
		numeric := (s.At(ts+h) - s.At(ts-h)) / (2 * h)
		if math.Abs(s.Derivative(ts)-numeric) > 1e-6 {
			t.Errorf("sine derivative at %v = %v, numeric %v", ts, s.Derivative(ts), numeric)
		}
	}

	r := Ramp{Start: 1, Slope: 3}
	if r.Derivative(0.5) != 0 || r.Derivative(2) != 3 {
		t.Error("ramp derivative wrong")
	}
}

func TestNoisyDeterministic(t *testing.T) {
	a := NewNoisy(Constant(1), 0.1, 7)
	b := NewNoisy(Constant(1), 0.1, 7)

	for i := 0; i < 100; i++ {
		va, vb := a.At(float64(i)), b.At(float64(i))
		if va != vb {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, va, vb)
		}
		if math.Abs(va-1) > 0.1 {
			t.Fatalf("noise out of range: %v", va)
		}
	}
}

func TestParse(t *testing.T) {
	src, err := Parse(DefaultSpec(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if src.At(0) != 0 || src.At(0.2) != 1 {
		t.Errorf("default step wrong: %v %v", src.At(0), src.At(0.2))
	}
	if _, ok := src.(Deriver); !ok {
		t.Error("step should expose a derivative")
	}

	held, err := Parse(Spec{Kind: "ramp", Slope: 1, Hold: 0.25}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := held.At(0.3); got != 0.25 {
		t.Errorf("held ramp = %v, want 0.25", got)
	}
	if _, ok := held.(Deriver); ok {
		t.Error("held source must not claim a derivative")
	}

	noisy, err := Parse(Spec{Kind: "constant", Amplitude: 1, Noise: 0.05}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := noisy.(*Noisy); !ok {
		t.Errorf("expected *Noisy, got %T", noisy)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(Spec{Kind: "sawtooth"}, 0); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	bad := []Spec{
		{Kind: "sine"},
		{Kind: "square", Frequency: -1},
		{Kind: "step", Hold: -1},
		{Kind: "step", Noise: -0.1},
	}
	for _, s := range bad {
		if _, err := Parse(s, 0); err == nil {
			t.Errorf("expected error for %+v", s)
		}
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 5 || kinds[0] != "constant" {
		t.Errorf("Kinds() = %v", kinds)
	}
}
