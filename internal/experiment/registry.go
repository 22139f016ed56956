package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/damper/internal/filters"
	"github.com/san-kum/damper/internal/metrics"
	"github.com/san-kum/damper/internal/signal"
	"github.com/san-kum/damper/internal/sim"
)

type (
	FilterFactory func(filters.Spec) (sim.Filter, error)
	SignalFactory func(spec signal.Spec, seed int64) (signal.Source, error)
)

type Registry struct {
	filters map[string]FilterFactory
	signals map[string]SignalFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		filters: make(map[string]FilterFactory),
		signals: make(map[string]SignalFactory),
	}

	for _, kind := range filters.Kinds() {
		r.filters[kind] = filters.New
	}
	for _, kind := range signal.Kinds() {
		r.signals[kind] = signal.Parse
	}

	return r
}

func (r *Registry) RegisterFilter(kind string, f FilterFactory) { r.filters[kind] = f }
func (r *Registry) RegisterSignal(kind string, f SignalFactory) { r.signals[kind] = f }

func (r *Registry) GetFilter(spec filters.Spec) (sim.Filter, error) {
	kind := spec.Kind
	if kind == "" {
		kind = filters.KindDamper
	}
	fn, ok := r.filters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", filters.ErrUnknownFilter, kind)
	}
	return fn(spec)
}

func (r *Registry) GetSignal(spec signal.Spec, seed int64) (signal.Source, error) {
	fn, ok := r.signals[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", signal.ErrUnknownKind, spec.Kind)
	}
	return fn(spec, seed)
}

func (r *Registry) ListFilters() []string { return sortedKeys(r.filters) }
func (r *Registry) ListSignals() []string { return sortedKeys(r.signals) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh metric set for one run.
func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
