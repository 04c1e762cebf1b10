package reducer

import (
	"errors"
	"testing"

	"viz/internal/domain"
)

func TestVarianceReduce_PicksHighestMagnitudeComponents(t *testing.T) {
	s := NewVarianceStrategy()

	// Component 2 has the largest total |value|, then 0, then 3.
	vectors := []domain.Vector{
		{1, 0.1, 5, -2, 0},
		{-1, 0.1, -5, 2, 0},
		{1, 0.1, 5, 2, 0},
	}

	res, err := s.Reduce(vectors)
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}

	if res.AxisIndices != [3]int{2, 3, 0} {
		t.Errorf("expected axis indices [2 3 0], got %v", res.AxisIndices)
	}

	// X axis is component 2: min -5, max 5.
	if res.AxisMin[0] != -5 || res.AxisMax[0] != 5 {
		t.Errorf("expected X range [-5,5], got [%f,%f]", res.AxisMin[0], res.AxisMax[0])
	}
}

func TestVarianceReduce_RangeInvariant(t *testing.T) {
	s := NewVarianceStrategy()

	vectors := []domain.Vector{
		{0.3, -1.2, 4.4, 0, 9, -7},
		{2.5, 0.7, -3.1, 1, -2, 6},
		{-1.1, 2.2, 0.5, 2, 3, 0},
	}

	res, err := s.Reduce(vectors)
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}

	dim := len(vectors[0])
	for k := 0; k < 3; k++ {
		if res.AxisMin[k] > res.AxisMax[k] {
			t.Errorf("axis %d: min %f > max %f", k, res.AxisMin[k], res.AxisMax[k])
		}
		if res.AxisIndices[k] < 0 || res.AxisIndices[k] >= dim {
			t.Errorf("axis %d: index %d out of range for dim %d", k, res.AxisIndices[k], dim)
		}
	}
}

func TestVarianceReduce_OrderIndependent(t *testing.T) {
	s := NewVarianceStrategy()

	a := []domain.Vector{{1, 2, 3}, {3, 2, 1}, {0, 5, 0}}
	b := []domain.Vector{{0, 5, 0}, {1, 2, 3}, {3, 2, 1}}

	ra, err := s.Reduce(a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := s.Reduce(b)
	if err != nil {
		t.Fatal(err)
	}

	if ra.AxisIndices != rb.AxisIndices {
		t.Errorf("axis indices depend on input order: %v vs %v", ra.AxisIndices, rb.AxisIndices)
	}
}

func TestVarianceReduce_TiesBrokenByAscendingIndex(t *testing.T) {
	s := NewVarianceStrategy()

	// All components tie; expect indices 0, 1, 2.
	vectors := []domain.Vector{{1, 1, 1, 1}, {-1, -1, -1, -1}}

	res, err := s.Reduce(vectors)
	if err != nil {
		t.Fatal(err)
	}
	if res.AxisIndices != [3]int{0, 1, 2} {
		t.Errorf("expected tie-break by ascending index, got %v", res.AxisIndices)
	}
}

func TestVarianceReduce_LowDimensionReusesIndices(t *testing.T) {
	s := NewVarianceStrategy()

	res, err := s.Reduce([]domain.Vector{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	for k, idx := range res.AxisIndices {
		if idx < 0 || idx >= 2 {
			t.Errorf("axis %d: index %d out of range for dim 2", k, idx)
		}
	}
}

func TestVarianceReduce_EmptyInput(t *testing.T) {
	s := NewVarianceStrategy()
	if _, err := s.Reduce(nil); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestRegistry_UnknownStrategy(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get("variance-ranked axes"); err != nil {
		t.Errorf("expected shipped strategy to be registered, got %v", err)
	}
	if _, err := r.Get("nope"); !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}
