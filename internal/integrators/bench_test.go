package integrators

import (
	"testing"

	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/physics"
	"github.com/san-kum/damper/internal/sim"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn, _ := physics.NewSecondOrder(dynamo.Critical)
	x := sim.State{0, 0}
	u := sim.Control{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, u, 0, 0.001)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn, _ := physics.NewSecondOrder(dynamo.Critical)
	x := sim.State{0, 0}
	u := sim.Control{1, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, u, 0, 0.001)
	}
}
