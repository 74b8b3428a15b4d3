// Package metrics records detection outcomes as Prometheus metrics and can
// write them to a node-exporter textfile at the end of a scan.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/signal-worker/internal/detector"
)

// Outcome label values.
const (
	OutcomeDetected = "detected"
	OutcomeNegative = "negative"
	OutcomeFailed   = "failed"
)

// Recorder implements detector.Observer. It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	confidence  *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
}

var _ detector.Observer = (*Recorder)(nil)

// NewRecorder returns a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_evaluations_total",
			Help: "Signal evaluations by signal and outcome",
		}, []string{"signal", "outcome"}),
		confidence: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signal_confidence",
			Help:    "Confidence of successful evaluations",
			Buckets: []float64{0, 0.25, 0.5, 0.6, 0.75, 0.9, 0.95, 1},
		}, []string{"signal"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signal_evaluation_duration_seconds",
			Help:    "Signal evaluation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"signal", "failed"}),
	}
}

// ObserveResult implements detector.Observer.
func (r *Recorder) ObserveResult(signalID string, res detector.Result, elapsed time.Duration) {
	outcome := OutcomeNegative
	if res.Detected {
		outcome = OutcomeDetected
	}
	r.evaluations.WithLabelValues(signalID, outcome).Inc()
	r.confidence.WithLabelValues(signalID).Observe(res.Confidence)
	r.duration.WithLabelValues(signalID, strconv.FormatBool(false)).Observe(elapsed.Seconds())
}

// ObserveFailure implements detector.Observer.
func (r *Recorder) ObserveFailure(signalID string, elapsed time.Duration) {
	r.evaluations.WithLabelValues(signalID, OutcomeFailed).Inc()
	r.duration.WithLabelValues(signalID, strconv.FormatBool(true)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, e.g. for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes the current metrics in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
