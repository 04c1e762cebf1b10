package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"viz/internal/domain"
	"viz/internal/port"
)

// embeddingPrefix namespaces cache entries within the shared key-value
// store. The text itself is the rest of the key, so identity is
// case-sensitive.
const embeddingPrefix = "embedding:"

// EmbeddingCache is a durable text-to-vector cache over a KeyValueStore.
// Entries are never evicted and carry no freshness information: a cached
// vector is assumed valid forever. Put overwrites silently.
type EmbeddingCache struct {
	store port.KeyValueStore
}

func NewEmbeddingCache(store port.KeyValueStore) *EmbeddingCache {
	return &EmbeddingCache{store: store}
}

// Get returns the cached vector for text, if present.
func (c *EmbeddingCache) Get(text string) (domain.Vector, bool, error) {
	raw, ok, err := c.store.Get(embeddingPrefix + text)
	if err != nil || !ok {
		return nil, false, err
	}

	var vec domain.Vector
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry for %q: %w", text, err)
	}
	return vec, true, nil
}

// Put stores the vector for text, overwriting any previous entry.
func (c *EmbeddingCache) Put(text string, vec domain.Vector) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to marshal vector for %q: %w", text, err)
	}
	return c.store.Set(embeddingPrefix+text, string(data))
}

// GetAll returns every cached (text, vector) pair. Corrupt entries are
// skipped rather than failing the scan.
func (c *EmbeddingCache) GetAll() ([]domain.LabeledVector, error) {
	keys, err := c.store.Keys(embeddingPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LabeledVector, 0, len(keys))
	for _, key := range keys {
		text := strings.TrimPrefix(key, embeddingPrefix)
		vec, ok, err := c.Get(text)
		if err != nil || !ok {
			continue
		}
		out = append(out, domain.LabeledVector{Text: text, Vector: vec})
	}
	return out, nil
}

// Count returns the number of cached entries.
func (c *EmbeddingCache) Count() (int, error) {
	keys, err := c.store.Keys(embeddingPrefix)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
