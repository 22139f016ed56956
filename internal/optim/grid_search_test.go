package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/damper/internal/config"
	"github.com/san-kum/damper/internal/experiment"
)

func buildFrom(base *config.Config) func(map[string]float64) (*experiment.Experiment, error) {
	return func(values map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for k, v := range values {
			if err := cfg.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, nil)
		if err := exp.Setup(experiment.NewRegistry().DefaultMetrics()); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

func TestGridSearchPrefersFasterResponse(t *testing.T) {
	gs := NewGridSearch([]string{"frequency"}, [][]float64{{0.5, 1, 2, 4}})

	best, val, err := gs.Search(context.Background(), buildFrom(config.DefaultConfig()), "tracking_error")
	if err != nil {
		t.Fatal(err)
	}
	if best["frequency"] != 4 {
		t.Errorf("best frequency = %v, want 4", best["frequency"])
	}
	if val <= 0 || gs.Evaluated() != 4 {
		t.Errorf("best value %v after %d evaluations", val, gs.Evaluated())
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	gs := NewGridSearch(
		[]string{"frequency", "damping"},
		[][]float64{{-1, 2}, {0.5, 1}},
	)

	best, _, err := gs.Search(context.Background(), buildFrom(config.DefaultConfig()), "overshoot")
	if err != nil {
		t.Fatal(err)
	}
	if best["frequency"] != 2 {
		t.Errorf("invalid frequency chosen: %v", best)
	}
	if gs.Evaluated() != 2 {
		t.Errorf("evaluated %d points, want 2", gs.Evaluated())
	}
}

func TestGridSearchErrors(t *testing.T) {
	gs := NewGridSearch([]string{"frequency", "damping"}, [][]float64{{1}})
	if _, _, err := gs.Search(context.Background(), buildFrom(config.DefaultConfig()), "overshoot"); err == nil {
		t.Error("expected error for mismatched grid")
	}

	gs = NewGridSearch([]string{"frequency"}, [][]float64{{-1, 0}})
	if _, _, err := gs.Search(context.Background(), buildFrom(config.DefaultConfig()), "overshoot"); !errors.Is(err, ErrNoEvaluation) {
		t.Errorf("expected ErrNoEvaluation, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gs = NewGridSearch([]string{"frequency"}, [][]float64{{1, 2}})
	if _, _, err := gs.Search(ctx, buildFrom(config.DefaultConfig()), "overshoot"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTune(t *testing.T) {
	base := config.DefaultConfig()
	tuned, best, err := Tune(context.Background(), base, []string{"frequency"}, [][]float64{{1, 3}}, "tracking_error", nil)
	if err != nil {
		t.Fatal(err)
	}
	if tuned.Params.Frequency != 3 {
		t.Errorf("tuned frequency = %v", tuned.Params.Frequency)
	}
	if base.Params.Frequency != 1 {
		t.Error("Tune modified the base config")
	}
	if best <= 0 {
		t.Errorf("best = %v", best)
	}

	if _, _, err := Tune(context.Background(), base, []string{"mass"}, [][]float64{{1}}, "overshoot", nil); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("Linspace = %v, want %v", got, want)
		}
	}
	if got := Linspace(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("single point = %v", got)
	}
}
