package port

// KeyValueStore is a durable string-keyed store. It backs the embedding
// cache and the orchestrator's persisted workflow state. Entries are never
// evicted; Set overwrites silently.
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all keys with the given prefix.
	Keys(prefix string) ([]string, error)
}
