package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"viz/internal/adapter/store"
	"viz/internal/domain"
	"viz/internal/port"
)

// VectorFetcher resolves embedding vectors for a list of texts, serving
// from the cache where possible and batch-fetching the rest.
type VectorFetcher struct {
	embedder    port.Embedder
	cache       *store.EmbeddingCache
	batchSize   int
	itemTimeout time.Duration
}

func NewVectorFetcher(embedder port.Embedder, cache *store.EmbeddingCache, batchSize int, itemTimeout time.Duration) *VectorFetcher {
	if batchSize <= 0 {
		batchSize = 10
	}
	if itemTimeout <= 0 {
		itemTimeout = 5 * time.Second
	}
	return &VectorFetcher{
		embedder:    embedder,
		cache:       cache,
		batchSize:   batchSize,
		itemTimeout: itemTimeout,
	}
}

// FetchFailure records one text that could not be embedded.
type FetchFailure struct {
	Text string
	Err  error
}

// FetchResult holds the vectors obtained by a FetchAll run and the items
// that failed. Results preserve settlement order, not input order.
type FetchResult struct {
	Results  []domain.LabeledVector
	Failures []FetchFailure
}

// FetchAll resolves vectors for texts. Cached texts are served immediately;
// the rest are fetched in fixed-size batches, sequential between batches
// and concurrent within one. Every uncached item races a per-item timeout,
// and a late success after the timeout is discarded. Successful fetches are
// written to the cache as they land, so a crash mid-run loses at most the
// in-flight batch. Individual failures are collected, not retried; the call
// as a whole fails only when fewer than domain.MinVectors vectors were
// obtained in total.
func (f *VectorFetcher) FetchAll(ctx context.Context, texts []string, progress domain.ProgressFunc) (*FetchResult, error) {
	result := &FetchResult{}
	total := len(texts)

	var uncached []string
	for _, text := range texts {
		vec, ok, err := f.cache.Get(text)
		if err == nil && ok {
			result.Results = append(result.Results, domain.LabeledVector{Text: text, Vector: vec})
			progress.Emit(domain.FetchingVectors{Completed: len(result.Results), Total: total})
			continue
		}
		uncached = append(uncached, text)
	}

	completed := len(result.Results)
	var mu sync.Mutex

	for start := 0; start < len(uncached); start += f.batchSize {
		end := start + f.batchSize
		if end > len(uncached) {
			end = len(uncached)
		}
		batch := uncached[start:end]

		var wg sync.WaitGroup
		for _, text := range batch {
			wg.Add(1)
			go func(text string) {
				defer wg.Done()

				vec, err := f.fetchOne(ctx, text)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failures = append(result.Failures, FetchFailure{Text: text, Err: err})
				} else {
					result.Results = append(result.Results, domain.LabeledVector{Text: text, Vector: vec})
					if cerr := f.cache.Put(text, vec); cerr != nil {
						// The vector is still usable in-memory; only
						// durability for this item is lost.
						result.Failures = append(result.Failures, FetchFailure{Text: text, Err: cerr})
					}
				}
				completed++
				progress.Emit(domain.FetchingVectors{Completed: completed, Total: total})
			}(text)
		}
		wg.Wait()
	}

	if len(result.Results) < domain.MinVectors {
		return result, fmt.Errorf("%w: got %d of %d, need at least %d",
			domain.ErrInsufficientEmbeddings, len(result.Results), total, domain.MinVectors)
	}
	return result, nil
}

// fetchOne races one embedding call against the per-item timeout. The
// embedder call is handed the bounded context too, but the select does not
// trust it to return promptly: whichever side settles first wins.
func (f *VectorFetcher) fetchOne(ctx context.Context, text string) (domain.Vector, error) {
	cctx, cancel := context.WithTimeout(ctx, f.itemTimeout)
	defer cancel()

	type outcome struct {
		vec domain.Vector
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		vec, err := f.embedder.Embed(cctx, text)
		ch <- outcome{vec: vec, err: err}
	}()

	select {
	case o := <-ch:
		return o.vec, o.err
	case <-cctx.Done():
		return nil, fmt.Errorf("embedding %q: %w", text, cctx.Err())
	}
}

// FetchOne resolves a single text, cache-first, persisting on success.
func (f *VectorFetcher) FetchOne(ctx context.Context, text string) (domain.Vector, error) {
	if vec, ok, err := f.cache.Get(text); err == nil && ok {
		return vec, nil
	}

	vec, err := f.fetchOne(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Put(text, vec); err != nil {
		return nil, err
	}
	return vec, nil
}
