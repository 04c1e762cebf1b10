package domain

import "errors"

// MinVectors is the smallest usable batch for axis reduction and label
// selection. Below it a stage reports insufficiency instead of producing
// a meaningless result.
const MinVectors = 3

var (
	// ErrUnknownStrategy indicates a reduction strategy id that was never
	// registered. Configuration error, never retried.
	ErrUnknownStrategy = errors.New("unknown reduction strategy")

	// ErrEmptyInput indicates an empty vector batch passed to reduction.
	ErrEmptyInput = errors.New("empty vector batch")

	// ErrNoAPIKey indicates a missing API key for an external service.
	ErrNoAPIKey = errors.New("api key not configured")

	// ErrNoWords indicates an empty or too-small word set.
	ErrNoWords = errors.New("word set is empty or too small")

	// ErrInsufficientEmbeddings indicates fewer than MinVectors embeddings
	// were obtainable for a fetch stage.
	ErrInsufficientEmbeddings = errors.New("insufficient embeddings")

	// ErrTooFewCandidates indicates fewer than MinVectors labeled
	// candidates were available for axis label selection.
	ErrTooFewCandidates = errors.New("too few labeled candidates")
)
