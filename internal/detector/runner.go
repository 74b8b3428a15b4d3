package detector

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/signal-worker/internal/page"
)

// Registry maps signal ids to constructors.
type Registry map[string]Factory

// Factory builds a detector instance.
type Factory func() (Detector, error)

// Names returns the registered signal ids in sorted order.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// BuildDetectors instantiates detectors from the provided names. An empty
// list selects every registered signal.
func (r Registry) BuildDetectors(names []string) ([]Detector, error) {
	if len(names) == 0 {
		names = r.Names()
	}

	var detectors []Detector
	seen := map[string]struct{}{}
	for _, name := range names {
		factory, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("unknown signal: %s", name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		d, err := factory()
		if err != nil {
			return nil, err
		}
		detectors = append(detectors, d)
	}
	return detectors, nil
}

// PageSource opens the page behind a target.
type PageSource interface {
	Open(ctx context.Context, target string) (page.Page, error)
}

// Observer is notified about every evaluation the runner performs.
type Observer interface {
	ObserveResult(signalID string, res Result, elapsed time.Duration)
	ObserveFailure(signalID string, elapsed time.Duration)
}

// Detection is a result tied to the target it was computed for.
type Detection struct {
	Target string `json:"target"`
	Result
}

// Failure records an evaluation that produced no result.
type Failure struct {
	Target   string `json:"target"`
	SignalID string `json:"signalId"`
	Error    string `json:"error"`
}

// Report collects the outcome of a run. Failures are kept apart from
// detections so that an unreadable page is never mistaken for a negative.
type Report struct {
	Detections []Detection `json:"detections"`
	Failures   []Failure   `json:"failures"`
}

// RunOptions tunes Run.
type RunOptions struct {
	// Concurrency bounds how many targets are evaluated at once.
	Concurrency int
	Observer    Observer
}

// Run opens each target once and evaluates every detector against it.
// Targets are processed concurrently; the report keeps target order and,
// within a target, detector order. Only context cancellation aborts the run.
func Run(ctx context.Context, source PageSource, detectors []Detector, targets []string, opts RunOptions) (Report, error) {
	if len(detectors) == 0 || len(targets) == 0 {
		return Report{}, nil
	}

	type slot struct {
		detections []Detection
		failures   []Failure
	}
	slots := make([]slot, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			p, err := source.Open(gctx, target)
			if err != nil {
				for _, d := range detectors {
					id := d.Identity().SignalID
					slots[i].failures = append(slots[i].failures, Failure{Target: target, SignalID: id, Error: err.Error()})
					observeFailure(opts.Observer, id, time.Since(start))
				}
				return nil
			}

			for _, d := range detectors {
				id := d.Identity().SignalID
				start := time.Now()
				res, err := d.Detect(gctx, p)
				if err != nil {
					slots[i].failures = append(slots[i].failures, Failure{Target: target, SignalID: id, Error: err.Error()})
					observeFailure(opts.Observer, id, time.Since(start))
					continue
				}
				slots[i].detections = append(slots[i].detections, Detection{Target: target, Result: res})
				if opts.Observer != nil {
					opts.Observer.ObserveResult(id, res, time.Since(start))
				}
			}
			return nil
		})
	}

	err := g.Wait()

	var report Report
	for _, s := range slots {
		report.Detections = append(report.Detections, s.detections...)
		report.Failures = append(report.Failures, s.failures...)
	}
	if err != nil {
		return report, err
	}
	return report, ctx.Err()
}

func observeFailure(o Observer, signalID string, elapsed time.Duration) {
	if o != nil {
		o.ObserveFailure(signalID, elapsed)
	}
}
