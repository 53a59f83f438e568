package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/storage"
)

// Ensemble runs one scenario several times in parallel, each run on its own
// headless host with consecutive seeds.
type Ensemble struct {
	scenario  *Scenario
	numRuns   int
	seedStart int64
}

// NewEnsemble returns an ensemble. A zero seedStart continues from the
// scenario seed, or from 1 when the scenario has none.
func NewEnsemble(sc *Scenario, numRuns int, seedStart int64) *Ensemble {
	if seedStart == 0 {
		seedStart = sc.Seed
	}
	if seedStart == 0 {
		seedStart = 1
	}
	return &Ensemble{scenario: sc, numRuns: numRuns, seedStart: seedStart}
}

// Seeds returns the seed of every run in order.
func (e *Ensemble) Seeds() []int64 {
	seeds := make([]int64, e.numRuns)
	for i := range seeds {
		seeds[i] = e.seedStart + int64(i)
	}
	return seeds
}

func (e *Ensemble) Run(ctx context.Context, base *config.Config, store *storage.Store, logger *slog.Logger) ([][]StepResult, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	results := make([][]StepResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i, s := range e.Seeds() {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()

			sc := *e.scenario
			sc.Seed = seed
			log := logger
			if log != nil {
				log = log.With("run", idx)
			}
			results[idx], errs[idx] = RunScenario(ctx, &sc, base, store, log)
		}(i, s)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}
	return results, nil
}
