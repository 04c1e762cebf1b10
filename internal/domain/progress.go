package domain

// ProgressEvent is a tagged union of per-stage progress notifications.
// Consumers type-switch on the concrete event instead of probing optional
// fields.
type ProgressEvent interface {
	progressEvent()
}

// GeneratingIdeas reports settled completion calls during candidate
// generation.
type GeneratingIdeas struct {
	Completed int
	Total     int
}

// FetchingVectors reports settled items (cached, fetched, failed, or timed
// out) during embedding retrieval.
type FetchingVectors struct {
	Completed int
	Total     int
}

// Selecting reports entry into the label selection phase, which is
// synchronous and has no internal granularity.
type Selecting struct{}

func (GeneratingIdeas) progressEvent() {}
func (FetchingVectors) progressEvent() {}
func (Selecting) progressEvent()       {}

// ProgressFunc receives progress events. A nil ProgressFunc is always
// acceptable and means "no reporting".
type ProgressFunc func(ProgressEvent)

// Emit calls f with ev if f is non-nil.
func (f ProgressFunc) Emit(ev ProgressEvent) {
	if f != nil {
		f(ev)
	}
}
