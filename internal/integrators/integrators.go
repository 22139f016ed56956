package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/damper/internal/sim"
)

var constructors = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return NewEuler() },
	"rk4":   func() sim.Integrator { return NewRK4() },
}

// ByName returns a fresh integrator. The empty name selects rk4.
func ByName(name string) (sim.Integrator, error) {
	if name == "" {
		name = "rk4"
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for k := range constructors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
