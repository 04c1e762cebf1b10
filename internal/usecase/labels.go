package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"viz/internal/adapter/reducer"
	"viz/internal/adapter/store"
	"viz/internal/domain"
	"viz/internal/port"
)

// Persisted workflow state keys. The orchestrator is the sole writer.
const (
	keyCandidates       = "labels:candidates"
	keyLabelResult      = "labels:result"
	keyCandidateVectors = "labels:vectors"
)

// WorkflowState is the orchestrator's current activity.
type WorkflowState int

const (
	StateIdle WorkflowState = iota
	StateGeneratingCandidates
	StateFetchingVectors
	StateSelecting
)

func (s WorkflowState) String() string {
	switch s {
	case StateGeneratingCandidates:
		return "generating-candidates"
	case StateFetchingVectors:
		return "fetching-vectors"
	case StateSelecting:
		return "selecting"
	default:
		return "idle"
	}
}

// RunOutcome records how the last run ended.
type RunOutcome int

const (
	OutcomeNone RunOutcome = iota
	OutcomeDone
	OutcomeFailed
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// StageProgress is the orchestrator-level progress payload: stage 1 covers
// candidate generation, stage 2 covers fetch (0-50) and selection (50-100).
type StageProgress struct {
	Stage   int
	Message string
	Percent int
}

// StageProgressFunc receives orchestrator progress. Nil means no reporting.
type StageProgressFunc func(StageProgress)

func (f StageProgressFunc) emit(p StageProgress) {
	if f != nil {
		f(p)
	}
}

// LabelOrchestrator sequences candidate generation, vector retrieval and
// axis label selection, persists intermediate results, and serves the
// cache-only refresh path.
type LabelOrchestrator struct {
	generator *CandidateGenerator
	fetcher   *VectorFetcher
	selector  *AxisLabelSelector
	projector *reducer.Projector
	cache     *store.EmbeddingCache
	kv        port.KeyValueStore

	strategyID       string
	iterations       int
	outputsPerPrompt int
	debounce         time.Duration
	events           domain.ProgressFunc

	mu             sync.Mutex
	state          WorkflowState
	outcome        RunOutcome
	refreshPending bool
}

// OrchestratorParams wires a LabelOrchestrator.
type OrchestratorParams struct {
	Generator        *CandidateGenerator
	Fetcher          *VectorFetcher
	Selector         *AxisLabelSelector
	Projector        *reducer.Projector
	Cache            *store.EmbeddingCache
	KV               port.KeyValueStore
	StrategyID       string
	Iterations       int
	OutputsPerPrompt int
	Debounce         time.Duration
	// Events optionally receives the raw per-component progress events in
	// addition to the mapped stage/percent callback.
	Events domain.ProgressFunc
}

func NewLabelOrchestrator(p OrchestratorParams) *LabelOrchestrator {
	if p.Iterations <= 0 {
		p.Iterations = 3
	}
	if p.OutputsPerPrompt <= 0 {
		p.OutputsPerPrompt = 5
	}
	if p.Debounce <= 0 {
		p.Debounce = 500 * time.Millisecond
	}
	return &LabelOrchestrator{
		generator:        p.Generator,
		fetcher:          p.Fetcher,
		selector:         p.Selector,
		projector:        p.Projector,
		cache:            p.Cache,
		kv:               p.KV,
		strategyID:       p.StrategyID,
		iterations:       p.Iterations,
		outputsPerPrompt: p.OutputsPerPrompt,
		debounce:         p.Debounce,
		events:           p.Events,
	}
}

// State returns the current workflow state.
func (o *LabelOrchestrator) State() WorkflowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastOutcome returns how the most recent run ended.
func (o *LabelOrchestrator) LastOutcome() RunOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

// Generate runs the full pipeline: clear persisted state, generate
// candidates, fetch vectors for the word set and the candidates, select
// labels, persist everything. Earlier stages' persisted output survives a
// later stage's failure.
func (o *LabelOrchestrator) Generate(ctx context.Context, words []string, progress StageProgressFunc) (*domain.AxisLabelResult, error) {
	if len(words) < domain.MinVectors {
		return nil, fmt.Errorf("%w: need at least %d words, have %d", domain.ErrNoWords, domain.MinVectors, len(words))
	}
	// A probe reduce with a throwaway batch rejects a bad strategy id
	// before any network spend.
	if _, err := o.projector.Reduce([]domain.Vector{{0}}, o.strategyID); err != nil {
		return nil, err
	}

	if err := o.enter(StateGeneratingCandidates); err != nil {
		return nil, err
	}

	result, err := o.run(ctx, words, progress)
	o.leave(err)
	return result, err
}

func (o *LabelOrchestrator) enter(s WorkflowState) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle {
		return fmt.Errorf("label workflow already running (state %s)", o.state)
	}
	o.state = s
	o.outcome = OutcomeNone
	return nil
}

func (o *LabelOrchestrator) transition(s WorkflowState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *LabelOrchestrator) leave(err error) {
	o.mu.Lock()
	o.state = StateIdle
	if err != nil {
		o.outcome = OutcomeFailed
	} else {
		o.outcome = OutcomeDone
	}
	o.mu.Unlock()
}

func (o *LabelOrchestrator) run(ctx context.Context, words []string, progress StageProgressFunc) (*domain.AxisLabelResult, error) {
	o.Reset()

	// Stage 1: candidate generation.
	candidates, err := o.generator.Generate(ctx, GenerateParams{
		Words:            words,
		Iterations:       o.iterations,
		OutputsPerPrompt: o.outputsPerPrompt,
		Progress: func(ev domain.ProgressEvent) {
			o.events.Emit(ev)
			if g, ok := ev.(domain.GeneratingIdeas); ok && g.Total > 0 {
				progress.emit(StageProgress{
					Stage:   1,
					Message: fmt.Sprintf("Generating label ideas (%d/%d)", g.Completed, g.Total),
					Percent: g.Completed * 100 / g.Total,
				})
			}
		},
	})
	if err != nil {
		return nil, err
	}
	if err := o.putJSON(keyCandidates, candidates); err != nil {
		return nil, err
	}

	// Stage 2a: fetch vectors for words and candidates in one pass; the
	// cache makes the overlap free.
	o.transition(StateFetchingVectors)
	texts := append(append([]string(nil), words...), candidates...)
	fetched, err := o.fetcher.FetchAll(ctx, texts, func(ev domain.ProgressEvent) {
		o.events.Emit(ev)
		if f, ok := ev.(domain.FetchingVectors); ok && f.Total > 0 {
			progress.emit(StageProgress{
				Stage:   2,
				Message: fmt.Sprintf("Fetching embeddings (%d/%d)", f.Completed, f.Total),
				Percent: f.Completed * 50 / f.Total,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	// Stage 2b: selection over candidate vectors, axes from word vectors.
	o.transition(StateSelecting)
	o.events.Emit(domain.Selecting{})
	progress.emit(StageProgress{Stage: 2, Message: "Selecting axis labels", Percent: 50})

	byText := make(map[string]domain.Vector, len(fetched.Results))
	for _, lv := range fetched.Results {
		byText[lv.Text] = lv.Vector
	}
	basis := pickVectors(words, byText)
	if len(basis) < domain.MinVectors {
		return nil, fmt.Errorf("%w: only %d of %d words have vectors", domain.ErrInsufficientEmbeddings, len(basis), len(words))
	}

	reduction, err := o.projector.Reduce(basis, o.strategyID)
	if err != nil {
		return nil, err
	}

	labeled := make([]domain.LabeledVector, 0, len(candidates))
	for _, c := range candidates {
		if vec, ok := byText[c]; ok {
			labeled = append(labeled, domain.LabeledVector{Text: c, Vector: vec})
		}
	}

	result, err := o.selector.SelectBestLabels(labeled, reduction)
	if err != nil {
		return nil, err
	}

	if err := o.putJSON(keyCandidateVectors, labeled); err != nil {
		return nil, err
	}
	if err := o.putJSON(keyLabelResult, result); err != nil {
		return nil, err
	}

	progress.emit(StageProgress{Stage: 2, Message: "Done", Percent: 100})
	return result, nil
}

func pickVectors(texts []string, byText map[string]domain.Vector) []domain.Vector {
	out := make([]domain.Vector, 0, len(texts))
	for _, t := range texts {
		if vec, ok := byText[t]; ok {
			out = append(out, vec)
		}
	}
	return out
}

// refreshData is everything the cache-only path can draw on.
type refreshData struct {
	candVectors []domain.LabeledVector
	allCached   []domain.LabeledVector
	wordVectors []domain.Vector
}

// refreshTier is one rung of the degradation ladder: the first tier whose
// predicate holds produces the result.
type refreshTier struct {
	when func(*refreshData) bool
	run  func(*refreshData) (*domain.AxisLabelResult, error)
}

// RefreshFromCache recomputes axis labels from persisted data only, issuing
// no network calls. It never fails: the ladder degrades from the persisted
// candidate/vector pairs, to any cached embeddings, to the fixed default
// labels, so it is safe to call speculatively.
func (o *LabelOrchestrator) RefreshFromCache(words []string) *domain.AxisLabelResult {
	data := o.gatherRefreshData(words)

	tiers := []refreshTier{
		{
			// Full (or partial but sufficient) candidate/vector pair set.
			when: func(d *refreshData) bool { return len(d.candVectors) >= domain.MinVectors },
			run: func(d *refreshData) (*domain.AxisLabelResult, error) {
				return o.selectOver(d.candVectors, d.wordVectors)
			},
		},
		{
			// Any cached embeddings at all, even unrelated to the current
			// candidate pool.
			when: func(d *refreshData) bool { return len(d.allCached) >= domain.MinVectors },
			run: func(d *refreshData) (*domain.AxisLabelResult, error) {
				return o.selectOver(d.allCached, d.wordVectors)
			},
		},
		{
			when: func(*refreshData) bool { return true },
			run: func(*refreshData) (*domain.AxisLabelResult, error) {
				return domain.DefaultAxisLabelResult(), nil
			},
		},
	}

	for _, tier := range tiers {
		if !tier.when(&data) {
			continue
		}
		result, err := tier.run(&data)
		if err != nil {
			continue
		}
		o.putJSON(keyLabelResult, result)
		return result
	}
	return domain.DefaultAxisLabelResult()
}

// selectOver runs selection over the given labeled vectors, deriving axes
// from the word vectors when enough exist and from the candidates
// themselves otherwise.
func (o *LabelOrchestrator) selectOver(labeled []domain.LabeledVector, wordVectors []domain.Vector) (*domain.AxisLabelResult, error) {
	basis := wordVectors
	if len(basis) < domain.MinVectors {
		basis = make([]domain.Vector, 0, len(labeled))
		for _, lv := range labeled {
			basis = append(basis, lv.Vector)
		}
	}

	reduction, err := o.projector.Reduce(basis, o.strategyID)
	if err != nil {
		return nil, err
	}
	return o.selector.SelectBestLabels(labeled, reduction)
}

func (o *LabelOrchestrator) gatherRefreshData(words []string) refreshData {
	var data refreshData

	var candidates []string
	o.getJSON(keyCandidates, &candidates)

	var stored []domain.LabeledVector
	o.getJSON(keyCandidateVectors, &stored)

	byText := make(map[string]domain.Vector, len(stored))
	for _, lv := range stored {
		byText[lv.Text] = lv.Vector
	}

	// Pair stored candidates with vectors, falling back to the embedding
	// cache for candidates the persisted vector set is missing.
	for _, c := range candidates {
		vec, ok := byText[c]
		if !ok {
			if cached, hit, err := o.cache.Get(c); err == nil && hit {
				vec, ok = cached, true
			}
		}
		if ok {
			data.candVectors = append(data.candVectors, domain.LabeledVector{Text: c, Vector: vec})
		}
	}

	if all, err := o.cache.GetAll(); err == nil {
		data.allCached = all
	}

	for _, w := range words {
		if vec, hit, err := o.cache.Get(w); err == nil && hit {
			data.wordVectors = append(data.wordVectors, vec)
		}
	}

	return data
}

// NotifyWordVectorsChanged schedules a debounced cache-only refresh after a
// word's vector was added or removed. A single pending flag prevents
// overlapping scheduled runs; it does not cancel one already in flight.
// Nothing is scheduled below domain.MinVectors labeled word vectors.
func (o *LabelOrchestrator) NotifyWordVectorsChanged(words []string) {
	available := 0
	for _, w := range words {
		if _, hit, err := o.cache.Get(w); err == nil && hit {
			available++
		}
	}
	if available < domain.MinVectors {
		return
	}

	o.mu.Lock()
	if o.refreshPending {
		o.mu.Unlock()
		return
	}
	o.refreshPending = true
	o.mu.Unlock()

	time.AfterFunc(o.debounce, func() {
		defer func() {
			o.mu.Lock()
			o.refreshPending = false
			o.mu.Unlock()
		}()
		o.RefreshFromCache(words)
	})
}

// Reset clears the persisted candidate pool, candidate vectors and label
// result. The embedding cache is untouched.
func (o *LabelOrchestrator) Reset() {
	o.kv.Delete(keyCandidates)
	o.kv.Delete(keyCandidateVectors)
	o.kv.Delete(keyLabelResult)
}

// Candidates returns the persisted candidate pool, if any.
func (o *LabelOrchestrator) Candidates() []string {
	var candidates []string
	o.getJSON(keyCandidates, &candidates)
	return candidates
}

// LastResult returns the persisted label result, if any.
func (o *LabelOrchestrator) LastResult() (*domain.AxisLabelResult, bool) {
	var result domain.AxisLabelResult
	if !o.getJSON(keyLabelResult, &result) {
		return nil, false
	}
	return &result, true
}

func (o *LabelOrchestrator) putJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return o.kv.Set(key, string(data))
}

func (o *LabelOrchestrator) getJSON(key string, v interface{}) bool {
	raw, ok, err := o.kv.Get(key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}
