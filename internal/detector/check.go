package detector

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/example/signal-worker/internal/page"
)

// Check is one heuristic predicate over a page. Name doubles as the
// evidence key when the check takes part in a matched tier.
type Check struct {
	Name string
	Eval func(ctx context.Context, p page.Page) (bool, error)
}

// Outcomes maps check names to their results for one page.
type Outcomes map[string]bool

// RunChecks evaluates every check in parallel and returns once all have
// finished. The first error is returned as is and no outcomes are reported.
func RunChecks(ctx context.Context, p page.Page, checks []Check) (Outcomes, error) {
	results := make([]bool, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			ok, err := c.Eval(gctx, p)
			if err != nil {
				return err
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(Outcomes, len(checks))
	for i, c := range checks {
		out[c.Name] = results[i]
	}
	return out, nil
}
