package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"viz/internal/domain"
)

func seedWordVectors(t *testing.T, p *testPipeline) []string {
	t.Helper()
	words := []string{"cat", "dog", "car"}
	vectors := map[string]domain.Vector{
		"cat": {5, 1, 0},
		"dog": {0, 5, 1},
		"car": {1, 0, 5},
	}
	for _, w := range words {
		if err := p.cache.Put(w, vectors[w]); err != nil {
			t.Fatal(err)
		}
	}
	return words
}

func candidateFixtures() map[string]domain.Vector {
	return map[string]domain.Vector{
		"fast":  {9, 0, 0},
		"slow":  {-9, 0, 0},
		"loud":  {0, 9, 0},
		"quiet": {0, -9, 0},
		"furry": {0, 0, 9},
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	embedder := newFakeEmbedder(candidateFixtures())
	completer := newFakeCompleter("fast", "slow", "loud", "quiet", "furry")
	p := newTestPipeline(embedder, completer)
	words := seedWordVectors(t, p)

	var mu sync.Mutex
	var stages []StageProgress
	result, err := p.orchestrator.Generate(context.Background(), words, func(sp StageProgress) {
		mu.Lock()
		stages = append(stages, sp)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if p.orchestrator.State() != StateIdle {
		t.Errorf("expected idle state after run, got %s", p.orchestrator.State())
	}
	if p.orchestrator.LastOutcome() != OutcomeDone {
		t.Errorf("expected done outcome, got %s", p.orchestrator.LastOutcome())
	}
	if result.IsDefault() {
		t.Fatal("expected a computed result, got the default label set")
	}

	// Word vectors tie on every component, so axes bind 0,1,2 in order and
	// the dominant candidate per component wins its end.
	if result.Positive.X != "fast" || result.Negative.X != "slow" {
		t.Errorf("unexpected X labels: +%q -%q", result.Positive.X, result.Negative.X)
	}
	if result.Positive.Y != "loud" || result.Negative.Y != "quiet" {
		t.Errorf("unexpected Y labels: +%q -%q", result.Positive.Y, result.Negative.Y)
	}
	if result.Positive.Z != "furry" {
		t.Errorf("unexpected Z positive label: %q", result.Positive.Z)
	}

	// Persisted result is retrievable.
	persisted, ok := p.orchestrator.LastResult()
	if !ok {
		t.Fatal("expected persisted label result")
	}
	if persisted.Positive != result.Positive {
		t.Errorf("persisted result differs: %+v vs %+v", persisted.Positive, result.Positive)
	}

	// Candidate pool persisted after stage 1.
	if got := p.orchestrator.Candidates(); len(got) != 5 {
		t.Errorf("expected 5 persisted candidates, got %v", got)
	}

	// Progress: both stages seen, stage 2 reaches 100.
	mu.Lock()
	defer mu.Unlock()
	sawStage1, finished := false, false
	for _, sp := range stages {
		if sp.Stage == 1 {
			sawStage1 = true
		}
		if sp.Stage == 2 && sp.Percent == 100 {
			finished = true
		}
		if sp.Percent < 0 || sp.Percent > 100 {
			t.Errorf("progress out of range: %+v", sp)
		}
	}
	if !sawStage1 || !finished {
		t.Errorf("incomplete progress sequence: stage1=%v finished=%v", sawStage1, finished)
	}

	// Raw event stream covers every phase.
	var sawIdeas, sawFetch, sawSelect bool
	for _, ev := range p.recordedEvents() {
		switch ev.(type) {
		case domain.GeneratingIdeas:
			sawIdeas = true
		case domain.FetchingVectors:
			sawFetch = true
		case domain.Selecting:
			sawSelect = true
		}
	}
	if !sawIdeas || !sawFetch || !sawSelect {
		t.Errorf("missing events: ideas=%v fetch=%v select=%v", sawIdeas, sawFetch, sawSelect)
	}
}

func TestGenerate_ThenRefreshIssuesNoNetworkCalls(t *testing.T) {
	embedder := newFakeEmbedder(candidateFixtures())
	completer := newFakeCompleter("fast", "slow", "loud", "quiet", "furry")
	p := newTestPipeline(embedder, completer)
	words := seedWordVectors(t, p)

	generated, err := p.orchestrator.Generate(context.Background(), words, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	embedCalls := p.embedder.callCount()
	completeCalls := p.completer.callCount()

	refreshed := p.orchestrator.RefreshFromCache(words)
	if refreshed.IsDefault() {
		t.Fatal("expected refresh to reuse persisted data, got defaults")
	}
	if refreshed.Positive != generated.Positive || refreshed.Negative != generated.Negative {
		t.Errorf("refresh diverged from generate: %+v vs %+v", refreshed, generated)
	}
	if p.embedder.callCount() != embedCalls || p.completer.callCount() != completeCalls {
		t.Error("cache-only refresh must not issue network calls")
	}
}

func TestGenerate_EntryConditions(t *testing.T) {
	p := newTestPipeline(newFakeEmbedder(nil), newFakeCompleter())

	if _, err := p.orchestrator.Generate(context.Background(), []string{"cat", "dog"}, nil); !errors.Is(err, domain.ErrNoWords) {
		t.Errorf("expected ErrNoWords for a 2-word set, got %v", err)
	}

	bad := NewLabelOrchestrator(OrchestratorParams{
		Generator:  p.orchestrator.generator,
		Fetcher:    p.fetcher,
		Selector:   NewAxisLabelSelector(0),
		Projector:  p.orchestrator.projector,
		Cache:      p.cache,
		KV:         p.kv,
		StrategyID: "not-registered",
	})
	if _, err := bad.Generate(context.Background(), []string{"a", "b", "c"}, nil); !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestGenerate_FailureKeepsEarlierStageState(t *testing.T) {
	// Candidates generate fine, but no embeddings can be fetched at all.
	embedder := newFakeEmbedder(nil)
	for text := range candidateFixtures() {
		embedder.failOn[text] = true
	}
	embedder.failOn["cat"] = true
	embedder.failOn["dog"] = true
	embedder.failOn["car"] = true
	completer := newFakeCompleter("fast", "slow", "loud", "quiet", "furry")
	p := newTestPipeline(embedder, completer)

	_, err := p.orchestrator.Generate(context.Background(), []string{"cat", "dog", "car"}, nil)
	if !errors.Is(err, domain.ErrInsufficientEmbeddings) {
		t.Fatalf("expected ErrInsufficientEmbeddings, got %v", err)
	}
	if p.orchestrator.LastOutcome() != OutcomeFailed {
		t.Errorf("expected failed outcome, got %s", p.orchestrator.LastOutcome())
	}
	if got := p.orchestrator.Candidates(); len(got) != 5 {
		t.Errorf("stage-1 candidate pool must survive a stage-2 failure, got %v", got)
	}
}

func TestRefreshFromCache_EmptyStoreReturnsDefaults(t *testing.T) {
	p := newTestPipeline(newFakeEmbedder(nil), newFakeCompleter())

	result := p.orchestrator.RefreshFromCache(nil)
	if result == nil {
		t.Fatal("refresh must always return a result")
	}
	if !result.IsDefault() {
		t.Errorf("expected default labels, got %+v", result)
	}
	want := domain.AxisLabels{X: "X", Y: "Y", Z: "Z"}
	if result.Positive != want {
		t.Errorf("expected default positive labels %+v, got %+v", want, result.Positive)
	}
	wantNeg := domain.AxisLabels{X: "-X", Y: "-Y", Z: "-Z"}
	if result.Negative != wantNeg {
		t.Errorf("expected default negative labels %+v, got %+v", wantNeg, result.Negative)
	}
}

func TestRefreshFromCache_FallsBackToAnyCachedEmbeddings(t *testing.T) {
	p := newTestPipeline(newFakeEmbedder(nil), newFakeCompleter())

	// No persisted candidate pool, but unrelated cached embeddings exist.
	p.cache.Put("alpha", domain.Vector{9, 0, 0})
	p.cache.Put("beta", domain.Vector{0, 9, 0})
	p.cache.Put("gamma", domain.Vector{0, 0, 9})

	result := p.orchestrator.RefreshFromCache(nil)
	if result.IsDefault() {
		t.Fatal("expected best-effort labels from cached embeddings, got defaults")
	}
}

func TestNotifyWordVectorsChanged_DebouncedRefresh(t *testing.T) {
	p := newTestPipeline(newFakeEmbedder(nil), newFakeCompleter())
	words := seedWordVectors(t, p)

	// Two quick notifications coalesce into one scheduled refresh.
	p.orchestrator.NotifyWordVectorsChanged(words)
	p.orchestrator.NotifyWordVectorsChanged(words)

	time.Sleep(60 * time.Millisecond)

	if _, ok := p.orchestrator.LastResult(); !ok {
		t.Error("expected a refreshed result to be persisted after the debounce delay")
	}
}

func TestNotifyWordVectorsChanged_BelowThresholdDoesNothing(t *testing.T) {
	p := newTestPipeline(newFakeEmbedder(nil), newFakeCompleter())
	p.cache.Put("cat", domain.Vector{1, 2, 3})

	p.orchestrator.NotifyWordVectorsChanged([]string{"cat", "dog", "car"})
	time.Sleep(60 * time.Millisecond)

	if _, ok := p.orchestrator.LastResult(); ok {
		t.Error("no refresh should be scheduled below the vector threshold")
	}
}
