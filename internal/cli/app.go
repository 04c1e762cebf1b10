package cli

import (
	"context"
	"fmt"

	"viz/config"
	"viz/internal/adapter/completion"
	"viz/internal/adapter/embedding"
	"viz/internal/adapter/reducer"
	"viz/internal/adapter/store"
	"viz/internal/domain"
	"viz/internal/port"
	"viz/internal/usecase"
)

// mockDimension is the vector length of the offline mock embedder.
const mockDimension = 64

// app wires the adapters and use cases for one command invocation.
type app struct {
	cfg       *config.Config
	st        *store.BoltStore
	cache     *store.EmbeddingCache
	registry  *reducer.Registry
	projector *reducer.Projector

	embedder     port.Embedder
	embedderErr  error
	completer    port.Completer
	completerErr error

	fetcher      *usecase.VectorFetcher
	generator    *usecase.CandidateGenerator
	selector     *usecase.AxisLabelSelector
	orchestrator *usecase.LabelOrchestrator
	words        *usecase.WordsUseCase
}

// unavailableEmbedder stands in when no API key is configured, so commands
// that never touch the network still work.
type unavailableEmbedder struct{ err error }

func (u unavailableEmbedder) Embed(context.Context, string) (domain.Vector, error) {
	return nil, u.err
}
func (unavailableEmbedder) ModelName() string { return "unavailable" }

type unavailableCompleter struct{ err error }

func (u unavailableCompleter) Complete(context.Context, []string, []string, int) ([]string, error) {
	return nil, u.err
}
func (unavailableCompleter) ModelName() string { return "unavailable" }

func buildApp() (*app, error) {
	if err := config.EnsureVizDir(rootDir); err != nil {
		return nil, fmt.Errorf("failed to create .viz directory: %w", err)
	}

	st, err := store.NewBoltStore(config.DataDBPath(rootDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}

	a := &app{
		cfg:      cfg,
		st:       st,
		cache:    store.NewEmbeddingCache(st),
		registry: reducer.NewRegistry(),
	}
	a.projector = reducer.NewProjector(a.registry, cfg.Reduction.DisplayRange)

	if useMock || cfg.Embedding.Provider == "mock" {
		a.embedder = embedding.NewMockEmbedder(mockDimension)
	} else {
		a.embedder, a.embedderErr = embedding.NewOpenAIEmbedder(
			cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		if a.embedderErr != nil {
			a.embedder = unavailableEmbedder{err: a.embedderErr}
		}
	}

	if useMock || cfg.Completion.Provider == "mock" {
		a.completer = completion.NewMockCompleter([]string{"fast", "slow", "loud", "quiet", "furry"})
	} else {
		a.completer, a.completerErr = completion.NewOpenAICompleter(
			cfg.Completion.APIKeyEnv, cfg.Completion.Model, cfg.Completion.BaseURL)
		if a.completerErr != nil {
			a.completer = unavailableCompleter{err: a.completerErr}
		}
	}

	a.fetcher = usecase.NewVectorFetcher(a.embedder, a.cache, cfg.Fetch.BatchSize, cfg.ItemTimeout())
	a.generator = usecase.NewCandidateGenerator(a.completer)
	a.selector = usecase.NewAxisLabelSelector(cfg.Labels.AdditionalPerEnd)
	a.orchestrator = usecase.NewLabelOrchestrator(usecase.OrchestratorParams{
		Generator:        a.generator,
		Fetcher:          a.fetcher,
		Selector:         a.selector,
		Projector:        a.projector,
		Cache:            a.cache,
		KV:               a.st,
		StrategyID:       cfg.Reduction.Strategy,
		Iterations:       cfg.Labels.Iterations,
		OutputsPerPrompt: cfg.Labels.OutputsPerPrompt,
		Debounce:         cfg.Debounce(),
	})
	a.words = usecase.NewWordsUseCase(a.st, a.cache, a.fetcher, a.orchestrator)

	return a, nil
}

func (a *app) close() {
	a.st.Close()
}
