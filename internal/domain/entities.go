package domain

// Vector is a fixed-length embedding of a text string. The length is
// whatever the embedding model produces; the pipeline infers it from the
// first vector it sees and never hardcodes it.
type Vector []float32

// LabeledVector pairs a text with its embedding. Identity is the text;
// a re-fetch supersedes the pair rather than mutating it.
type LabeledVector struct {
	Text   string `json:"text"`
	Vector Vector `json:"vector"`
}

// ReductionResult binds the three display axes to vector component indices
// and records the per-axis value range over the batch it was computed from.
// The indices are valid for the batch's vector length but not necessarily
// distinct: a degenerate strategy output collapses the projection to 2D or
// 1D, which downstream display treats as a curiosity, not an error.
type ReductionResult struct {
	AxisIndices [3]int     `json:"axis_indices"`
	AxisMin     [3]float64 `json:"axis_min"`
	AxisMax     [3]float64 `json:"axis_max"`
}

// Point3D is one vector projected into display coordinates.
type Point3D struct {
	X float64
	Y float64
	Z float64
}

// AxisLabels holds one label per display axis.
type AxisLabels struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// AxisExtras lists the next-ranked label candidates for one axis, both ends,
// for optional display below the chosen labels.
type AxisExtras struct {
	Positive []string `json:"positive,omitempty"`
	Negative []string `json:"negative,omitempty"`
}

// AxisLabelResult is the chosen label text for the high and low end of each
// axis, plus runner-up candidates per axis. Built fresh on every selection
// run; the orchestrator persists the latest one.
type AxisLabelResult struct {
	Positive   AxisLabels    `json:"positive"`
	Negative   AxisLabels    `json:"negative"`
	Additional [3]AxisExtras `json:"additional,omitempty"`
}

// DefaultAxisLabelResult is the fixed fallback used when too little cached
// data exists to compute real labels.
func DefaultAxisLabelResult() *AxisLabelResult {
	return &AxisLabelResult{
		Positive: AxisLabels{X: "X", Y: "Y", Z: "Z"},
		Negative: AxisLabels{X: "-X", Y: "-Y", Z: "-Z"},
	}
}

// IsDefault reports whether r carries the fallback axis names rather than
// labels computed from candidate vectors.
func (r *AxisLabelResult) IsDefault() bool {
	d := DefaultAxisLabelResult()
	return r.Positive == d.Positive && r.Negative == d.Negative
}
