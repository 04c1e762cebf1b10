package reducer

import "viz/internal/domain"

// DefaultDisplayRange is the half-width of the display cube: projected
// coordinates land in [-DefaultDisplayRange, DefaultDisplayRange].
const DefaultDisplayRange = 2.0

// Projector resolves a strategy from the registry, computes axis bindings
// for a batch, and rescales individual vectors into display coordinates.
type Projector struct {
	registry *Registry
	rng      float64
}

// NewProjector creates a projector over the given registry. A display range
// of 0 or below falls back to DefaultDisplayRange.
func NewProjector(registry *Registry, displayRange float64) *Projector {
	if displayRange <= 0 {
		displayRange = DefaultDisplayRange
	}
	return &Projector{registry: registry, rng: displayRange}
}

// Reduce computes the axis binding for the batch under the named strategy.
func (p *Projector) Reduce(vectors []domain.Vector, strategyID string) (domain.ReductionResult, error) {
	strategy, err := p.registry.Get(strategyID)
	if err != nil {
		return domain.ReductionResult{}, err
	}
	return strategy.Reduce(vectors)
}

// Project rescales one vector into display coordinates using the axis
// binding in res. Each axis value is mapped linearly from
// [AxisMin, AxisMax] onto [-range, range] and clamped, so the output is
// inside the display cube regardless of the vector's raw magnitude. A
// collapsed axis range maps to the midpoint.
func (p *Projector) Project(v domain.Vector, res domain.ReductionResult) domain.Point3D {
	coords := [3]float64{}
	for k := 0; k < 3; k++ {
		coords[k] = p.scale(componentAt(v, res.AxisIndices[k]), res.AxisMin[k], res.AxisMax[k])
	}
	return domain.Point3D{X: coords[0], Y: coords[1], Z: coords[2]}
}

// DisplayRange returns the configured half-width of the display cube.
func (p *Projector) DisplayRange() float64 { return p.rng }

func (p *Projector) scale(x, min, max float64) float64 {
	if min >= max {
		return 0
	}
	scaled := -p.rng + (x-min)/(max-min)*2*p.rng
	if scaled < -p.rng {
		return -p.rng
	}
	if scaled > p.rng {
		return p.rng
	}
	return scaled
}

func componentAt(v domain.Vector, idx int) float64 {
	if idx < 0 || idx >= len(v) {
		return 0
	}
	return float64(v[idx])
}
