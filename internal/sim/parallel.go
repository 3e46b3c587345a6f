package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds the i-th independent simulator of an ensemble. Simulators
// share nothing, so each run owns its controller and world.
type Factory func(i int) (*Simulator, error)

type Ensemble struct {
	build   Factory
	numRuns int
	limit   int
}

// NewEnsemble runs numRuns simulators, at most limit at a time (limit <= 0
// means unbounded).
func NewEnsemble(build Factory, numRuns, limit int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, limit: limit}
}

// Run executes every simulator with cfg. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			s, err := e.build(i)
			if err != nil {
				return err
			}
			results[i], err = s.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
