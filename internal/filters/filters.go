// Package filters adapts the damper and its comparison baselines to
// sim.Filter.
package filters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/damper/internal/dynamo"
	"github.com/san-kum/damper/internal/sim"
)

var ErrUnknownFilter = errors.New("filters: unknown kind")

const (
	KindDamper    = "damper"
	KindReference = "reference"
	KindHarmonica = "harmonica"
)

// Spec selects and tunes a filter. Policy applies to the damper, Integrator
// and Substeps to the reference.
type Spec struct {
	Kind       string        `yaml:"kind" json:"kind"`
	Params     dynamo.Params `yaml:"params" json:"params"`
	Policy     string        `yaml:"policy,omitempty" json:"policy,omitempty"`
	Integrator string        `yaml:"integrator,omitempty" json:"integrator,omitempty"`
	Substeps   int           `yaml:"substeps,omitempty" json:"substeps,omitempty"`
}

func New(spec Spec) (sim.Filter, error) {
	switch spec.Kind {
	case KindDamper, "":
		policy, err := dynamo.PolicyByName(spec.Policy)
		if err != nil {
			return nil, err
		}
		return NewDamper(spec.Params, policy)
	case KindReference:
		return NewReference(spec.Params, spec.Integrator, spec.Substeps)
	case KindHarmonica:
		return NewSpring(spec.Params)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, spec.Kind)
	}
}

func Kinds() []string {
	kinds := []string{KindDamper, KindReference, KindHarmonica}
	sort.Strings(kinds)
	return kinds
}
