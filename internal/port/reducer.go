package port

import "viz/internal/domain"

// ReductionStrategy maps a batch of high-dimensional vectors to three
// display axes. Strategies are stateless: Reduce is a pure function of its
// input batch and is recomputed, never patched, when the batch changes.
type ReductionStrategy interface {
	// ID is the stable identifier used for registry lookup and config.
	ID() string

	// DisplayName is a short human-readable name for UI listings.
	DisplayName() string

	// Description explains what the strategy optimizes for.
	Description() string

	// Reduce selects the three axis component indices and their value
	// ranges over the batch. Fails with domain.ErrEmptyInput on an empty
	// batch.
	Reduce(vectors []domain.Vector) (domain.ReductionResult, error)
}
