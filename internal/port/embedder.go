package port

import (
	"context"

	"viz/internal/domain"
)

// Embedder resolves a single text to its embedding vector via an external
// model. Implementations may retry transient failures internally; callers
// bound each call with the context deadline.
type Embedder interface {
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) (domain.Vector, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}
