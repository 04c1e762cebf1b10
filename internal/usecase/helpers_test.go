package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"viz/internal/adapter/memstore"
	"viz/internal/adapter/reducer"
	"viz/internal/adapter/store"
	"viz/internal/domain"
)

// fakeEmbedder serves vectors from a fixed map and counts calls. Texts in
// blockOn hang until the context expires; texts in failOn error immediately.
type fakeEmbedder struct {
	mu      sync.Mutex
	calls   int
	vectors map[string]domain.Vector
	blockOn map[string]bool
	failOn  map[string]bool
}

func newFakeEmbedder(vectors map[string]domain.Vector) *fakeEmbedder {
	return &fakeEmbedder{
		vectors: vectors,
		blockOn: make(map[string]bool),
		failOn:  make(map[string]bool),
	}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockOn[text]
	fail := f.failOn[text]
	vec, ok := f.vectors[text]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if fail {
		return nil, fmt.Errorf("embedding service unavailable for %q", text)
	}
	if !ok {
		return nil, fmt.Errorf("no fixture vector for %q", text)
	}
	return vec, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake" }

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCompleter returns a fixed word list, optionally failing a subset of
// calls (counted in arrival order).
type fakeCompleter struct {
	mu        sync.Mutex
	calls     int
	words     []string
	failCalls map[int]bool // 1-based arrival order
}

func newFakeCompleter(words ...string) *fakeCompleter {
	return &fakeCompleter{words: words, failCalls: make(map[int]bool)}
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ []string, count int) ([]string, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.failCalls[n] {
		return nil, fmt.Errorf("completion call %d failed", n)
	}
	if count < len(f.words) {
		return append([]string(nil), f.words[:count]...), nil
	}
	return append([]string(nil), f.words...), nil
}

func (f *fakeCompleter) ModelName() string { return "fake" }

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testPipeline bundles a fully wired orchestrator over in-memory storage.
type testPipeline struct {
	kv           *memstore.MemoryStore
	cache        *store.EmbeddingCache
	embedder     *fakeEmbedder
	completer    *fakeCompleter
	fetcher      *VectorFetcher
	orchestrator *LabelOrchestrator

	eventMu sync.Mutex
	events  []domain.ProgressEvent
}

func (p *testPipeline) recordedEvents() []domain.ProgressEvent {
	p.eventMu.Lock()
	defer p.eventMu.Unlock()
	return append([]domain.ProgressEvent(nil), p.events...)
}

func newTestPipeline(embedder *fakeEmbedder, completer *fakeCompleter) *testPipeline {
	kv := memstore.NewMemoryStore()
	cache := store.NewEmbeddingCache(kv)
	registry := reducer.NewRegistry()
	projector := reducer.NewProjector(registry, 2.0)
	fetcher := NewVectorFetcher(embedder, cache, 10, 50*time.Millisecond)

	p := &testPipeline{
		kv:        kv,
		cache:     cache,
		embedder:  embedder,
		completer: completer,
		fetcher:   fetcher,
	}
	p.orchestrator = NewLabelOrchestrator(OrchestratorParams{
		Generator:        NewCandidateGenerator(completer),
		Fetcher:          fetcher,
		Selector:         NewAxisLabelSelector(2),
		Projector:        projector,
		Cache:            cache,
		KV:               kv,
		StrategyID:       reducer.StrategyVarianceRanked,
		Iterations:       3,
		OutputsPerPrompt: 5,
		Debounce:         10 * time.Millisecond,
		Events: func(ev domain.ProgressEvent) {
			p.eventMu.Lock()
			p.events = append(p.events, ev)
			p.eventMu.Unlock()
		},
	})

	return p
}
