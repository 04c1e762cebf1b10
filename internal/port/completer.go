package port

import "context"

// Completer generates candidate axis-label words from an external
// completion service.
type Completer interface {
	// Complete asks for count new descriptive-characteristic words for the
	// given word set, distinct from the existing candidates. A response the
	// implementation cannot parse yields an empty slice, not an error;
	// errors are reserved for failed calls.
	Complete(ctx context.Context, words, existing []string, count int) ([]string, error)

	// ModelName returns the name of the completion model.
	ModelName() string
}
