// Package reducer selects which three embedding components become the X, Y
// and Z display axes, and projects vectors onto them.
package reducer

import (
	"math"
	"sort"

	"viz/internal/domain"
)

// StrategyVarianceRanked is the id of the shipped default strategy.
const StrategyVarianceRanked = "variance-ranked axes"

// VarianceStrategy ranks vector components by the sum of absolute values
// across the batch and takes the top three as axes. This is a cheap,
// deterministic proxy for variance-based selection, not principal component
// analysis: the score favors components with large magnitudes, which for
// centered embedding spaces tracks spread closely enough for display.
type VarianceStrategy struct{}

func NewVarianceStrategy() *VarianceStrategy { return &VarianceStrategy{} }

func (*VarianceStrategy) ID() string          { return StrategyVarianceRanked }
func (*VarianceStrategy) DisplayName() string { return "Variance-ranked axes" }

func (*VarianceStrategy) Description() string {
	return "Ranks embedding components by total absolute magnitude across the batch and maps the top three to X, Y, Z."
}

// Reduce computes the axis binding for the batch. The sort is stable with
// ties broken by ascending component index, so the result is independent of
// input vector order. If the embedding dimension is below three, the last
// ranked index is reused for the remaining axes; the projection degenerates
// to 2D or 1D, which is accepted rather than rejected.
func (*VarianceStrategy) Reduce(vectors []domain.Vector) (domain.ReductionResult, error) {
	var res domain.ReductionResult
	if len(vectors) == 0 {
		return res, domain.ErrEmptyInput
	}

	dim := len(vectors[0])
	if dim == 0 {
		return res, domain.ErrEmptyInput
	}

	importance := make([]float64, dim)
	for _, v := range vectors {
		for j, x := range v {
			if j >= dim {
				break
			}
			importance[j] += math.Abs(float64(x))
		}
	}

	ranked := make([]int, dim)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return importance[ranked[a]] > importance[ranked[b]]
	})

	for k := 0; k < 3; k++ {
		idx := k
		if idx >= dim {
			idx = dim - 1
		}
		res.AxisIndices[k] = ranked[idx]
	}

	for k := 0; k < 3; k++ {
		idx := res.AxisIndices[k]
		min, max := math.Inf(1), math.Inf(-1)
		for _, v := range vectors {
			var x float64
			if idx < len(v) {
				x = float64(v[idx])
			}
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
		}
		res.AxisMin[k] = min
		res.AxisMax[k] = max
	}

	return res, nil
}
