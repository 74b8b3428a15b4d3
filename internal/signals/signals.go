// Package signals is the catalog of signal detectors shipped with the worker.
package signals

import (
	"github.com/example/signal-worker/internal/detector"
	"github.com/example/signal-worker/internal/signals/personalization"
)

// DefaultRegistry contains the built-in signals keyed by signal id.
var DefaultRegistry = detector.Registry{
	personalization.SignalID: func() (detector.Detector, error) {
		d, err := personalization.New()
		if err != nil {
			return nil, err
		}
		return d, nil
	},
}

// Catalog returns the identity of every signal in r, in signal id order.
func Catalog(r detector.Registry) ([]detector.Identity, error) {
	dets, err := r.BuildDetectors(nil)
	if err != nil {
		return nil, err
	}
	out := make([]detector.Identity, 0, len(dets))
	for _, d := range dets {
		out = append(out, d.Identity())
	}
	return out, nil
}
