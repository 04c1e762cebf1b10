package usecase

import (
	"fmt"
	"sort"

	"viz/internal/domain"
)

// AxisLabelSelector ranks labeled candidate vectors by signed projection
// onto each display axis and picks the extremes as axis labels.
type AxisLabelSelector struct {
	additionalPerEnd int
}

// NewAxisLabelSelector creates a selector that keeps additionalPerEnd
// runner-up labels per axis end (negative values mean none).
func NewAxisLabelSelector(additionalPerEnd int) *AxisLabelSelector {
	if additionalPerEnd < 0 {
		additionalPerEnd = 0
	}
	return &AxisLabelSelector{additionalPerEnd: additionalPerEnd}
}

// SelectBestLabels sorts candidates per axis by the signed value at that
// axis's component index; the head of the sort becomes the positive label
// and the tail the negative one, ties broken by input order. One candidate
// can legitimately label several axes, or both ends of different axes.
// Fails with domain.ErrTooFewCandidates below domain.MinVectors candidates.
func (s *AxisLabelSelector) SelectBestLabels(candidates []domain.LabeledVector, reduction domain.ReductionResult) (*domain.AxisLabelResult, error) {
	if len(candidates) < domain.MinVectors {
		return nil, fmt.Errorf("%w: got %d, need at least %d",
			domain.ErrTooFewCandidates, len(candidates), domain.MinVectors)
	}

	result := &domain.AxisLabelResult{}
	positive := [3]string{}
	negative := [3]string{}

	for axis := 0; axis < 3; axis++ {
		idx := reduction.AxisIndices[axis]

		sorted := append([]domain.LabeledVector(nil), candidates...)
		sort.SliceStable(sorted, func(a, b int) bool {
			return componentValue(sorted[a].Vector, idx) > componentValue(sorted[b].Vector, idx)
		})

		positive[axis] = sorted[0].Text
		negative[axis] = sorted[len(sorted)-1].Text

		for i := 1; i <= s.additionalPerEnd && i < len(sorted)-1; i++ {
			result.Additional[axis].Positive = append(result.Additional[axis].Positive, sorted[i].Text)
		}
		for i := 1; i <= s.additionalPerEnd && len(sorted)-1-i > 0; i++ {
			result.Additional[axis].Negative = append(result.Additional[axis].Negative, sorted[len(sorted)-1-i].Text)
		}
	}

	result.Positive = domain.AxisLabels{X: positive[0], Y: positive[1], Z: positive[2]}
	result.Negative = domain.AxisLabels{X: negative[0], Y: negative[1], Z: negative[2]}
	return result, nil
}

func componentValue(v domain.Vector, idx int) float64 {
	if idx < 0 || idx >= len(v) {
		return 0
	}
	return float64(v[idx])
}
