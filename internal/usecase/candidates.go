package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"viz/internal/domain"
	"viz/internal/port"
)

// CandidateGenerator produces axis-label candidate words by issuing
// concurrent calls to the completion service and merging the outputs.
type CandidateGenerator struct {
	completer port.Completer
}

func NewCandidateGenerator(completer port.Completer) *CandidateGenerator {
	return &CandidateGenerator{completer: completer}
}

// GenerateParams configures a generation run.
type GenerateParams struct {
	// Words is the user's visualized word set the candidates describe.
	Words []string
	// Existing is the already-accumulated candidate pool. A snapshot of it
	// is handed to every call before any of them resolve, so duplicate
	// avoidance across concurrent calls is best-effort only; the merge pass
	// afterwards removes whatever slipped through.
	Existing []string
	// Iterations is the number of concurrent completion calls.
	Iterations int
	// OutputsPerPrompt is the number of words requested per call.
	OutputsPerPrompt int
	// Progress, if set, receives one GeneratingIdeas event per settled call.
	Progress domain.ProgressFunc
}

// Generate runs the configured calls and returns Existing extended with the
// merged new candidates, deduplicated case-insensitively in arrival order.
// A failed individual call contributes nothing and does not abort the run;
// the run itself fails only on an empty word set or when nothing was
// requested and nothing already exists.
func (g *CandidateGenerator) Generate(ctx context.Context, params GenerateParams) ([]string, error) {
	if len(params.Words) == 0 {
		return nil, domain.ErrNoWords
	}
	if params.Iterations <= 0 || params.OutputsPerPrompt <= 0 {
		if len(params.Existing) == 0 {
			return nil, fmt.Errorf("no candidates requested: iterations=%d, outputs=%d",
				params.Iterations, params.OutputsPerPrompt)
		}
		return append([]string(nil), params.Existing...), nil
	}

	// Every call sees the same pre-run snapshot, deliberately: the calls
	// race, and serializing them for strict novelty would trade away the
	// latency the concurrent fan-out buys.
	snapshot := append([]string(nil), params.Existing...)

	contributions := make([][]string, params.Iterations)
	var wg sync.WaitGroup
	var progressMu sync.Mutex
	settled := 0

	for i := 0; i < params.Iterations; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			out, err := g.completer.Complete(ctx, params.Words, snapshot, params.OutputsPerPrompt)
			if err == nil {
				contributions[slot] = out
			}

			progressMu.Lock()
			settled++
			params.Progress.Emit(domain.GeneratingIdeas{Completed: settled, Total: params.Iterations})
			progressMu.Unlock()
		}(i)
	}
	wg.Wait()

	// Merge pass: filter each call's output against everything accumulated
	// so far, case-insensitively. This is where cross-call duplicates die.
	merged := append([]string(nil), params.Existing...)
	seen := make(map[string]struct{}, len(merged))
	for _, c := range merged {
		seen[strings.ToLower(c)] = struct{}{}
	}
	for _, out := range contributions {
		for _, word := range out {
			word = strings.TrimSpace(word)
			if word == "" {
				continue
			}
			key := strings.ToLower(word)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, word)
		}
	}

	return merged, nil
}
