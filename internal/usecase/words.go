package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"viz/internal/adapter/store"
	"viz/internal/domain"
	"viz/internal/port"
)

const keyWords = "words"

// WordsUseCase manages the visualized word set: the persisted word list and
// the embedding each word needs before it can be placed in the scene.
type WordsUseCase struct {
	kv           port.KeyValueStore
	cache        *store.EmbeddingCache
	fetcher      *VectorFetcher
	orchestrator *LabelOrchestrator
}

func NewWordsUseCase(kv port.KeyValueStore, cache *store.EmbeddingCache, fetcher *VectorFetcher, orchestrator *LabelOrchestrator) *WordsUseCase {
	return &WordsUseCase{
		kv:           kv,
		cache:        cache,
		fetcher:      fetcher,
		orchestrator: orchestrator,
	}
}

// List returns the current word set in insertion order.
func (u *WordsUseCase) List() ([]string, error) {
	raw, ok, err := u.kv.Get(keyWords)
	if err != nil || !ok {
		return nil, err
	}
	var words []string
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		return nil, fmt.Errorf("corrupt word list: %w", err)
	}
	return words, nil
}

// Add appends a word (exact-match deduplicated), fetches and caches its
// vector, and notifies the orchestrator so a debounced label refresh can
// run. A failed fetch still keeps the word; its vector arrives on the next
// fetch pass.
func (u *WordsUseCase) Add(ctx context.Context, word string) error {
	words, err := u.List()
	if err != nil {
		return err
	}
	for _, w := range words {
		if w == word {
			return fmt.Errorf("word %q already present", word)
		}
	}

	words = append(words, word)
	if err := u.save(words); err != nil {
		return err
	}

	if _, err := u.fetcher.FetchOne(ctx, word); err != nil {
		return fmt.Errorf("word added, but embedding fetch failed: %w", err)
	}

	u.orchestrator.NotifyWordVectorsChanged(words)
	return nil
}

// AddAll appends each absent word without fetching vectors; callers follow
// up with FetchAll for bulk ingestion.
func (u *WordsUseCase) AddAll(words []string) (added int, err error) {
	current, err := u.List()
	if err != nil {
		return 0, err
	}
	present := make(map[string]struct{}, len(current))
	for _, w := range current {
		present[w] = struct{}{}
	}

	for _, w := range words {
		if _, ok := present[w]; ok {
			continue
		}
		present[w] = struct{}{}
		current = append(current, w)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, u.save(current)
}

// Remove deletes a word from the set. The cached embedding stays; cache
// entries are never evicted.
func (u *WordsUseCase) Remove(word string) error {
	words, err := u.List()
	if err != nil {
		return err
	}

	kept := words[:0]
	found := false
	for _, w := range words {
		if w == word {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	if !found {
		return fmt.Errorf("word %q not found", word)
	}

	if err := u.save(kept); err != nil {
		return err
	}
	u.orchestrator.NotifyWordVectorsChanged(kept)
	return nil
}

// Vectors returns the cached (word, vector) pairs for the current set,
// skipping words whose embedding has not been fetched yet.
func (u *WordsUseCase) Vectors() ([]domain.LabeledVector, error) {
	words, err := u.List()
	if err != nil {
		return nil, err
	}

	out := make([]domain.LabeledVector, 0, len(words))
	for _, w := range words {
		vec, ok, err := u.cache.Get(w)
		if err != nil || !ok {
			continue
		}
		out = append(out, domain.LabeledVector{Text: w, Vector: vec})
	}
	return out, nil
}

// Fetch resolves vectors for the whole word set, cache-first.
func (u *WordsUseCase) Fetch(ctx context.Context, progress domain.ProgressFunc) (*FetchResult, error) {
	words, err := u.List()
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, domain.ErrNoWords
	}

	result, err := u.fetcher.FetchAll(ctx, words, progress)
	if err != nil {
		return result, err
	}
	u.orchestrator.NotifyWordVectorsChanged(words)
	return result, nil
}

func (u *WordsUseCase) save(words []string) error {
	data, err := json.Marshal(words)
	if err != nil {
		return err
	}
	return u.kv.Set(keyWords, string(data))
}
