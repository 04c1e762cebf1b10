package reducer

import (
	"fmt"
	"sort"

	"viz/internal/domain"
	"viz/internal/port"
)

// Registry holds named dimension-reduction strategies. Strategies are
// registered once at process start; lookup by id is the only way to obtain
// one, and an absent id is an error, never a silent default.
type Registry struct {
	strategies map[string]port.ReductionStrategy
}

// NewRegistry returns a registry pre-populated with the shipped strategies.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]port.ReductionStrategy)}
	r.Register(NewVarianceStrategy())
	return r
}

// Register adds a strategy, replacing any previous strategy with the same id.
func (r *Registry) Register(s port.ReductionStrategy) {
	r.strategies[s.ID()] = s
}

// Get resolves a strategy by id.
func (r *Registry) Get(id string) (port.ReductionStrategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, id)
	}
	return s, nil
}

// List returns all registered strategies sorted by id.
func (r *Registry) List() []port.ReductionStrategy {
	out := make([]port.ReductionStrategy, 0, len(r.strategies))
	for _, s := range r.strategies {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
