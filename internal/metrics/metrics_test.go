package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signal-worker/internal/detector"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	r := NewRecorder()

	r.ObserveResult("SIG", detector.Result{SignalID: "SIG", Detected: true, Confidence: 0.95}, time.Millisecond)
	r.ObserveResult("SIG", detector.Result{SignalID: "SIG"}, time.Millisecond)
	r.ObserveResult("SIG", detector.Result{SignalID: "SIG"}, time.Millisecond)
	r.ObserveFailure("SIG", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("SIG", OutcomeDetected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("SIG", OutcomeNegative)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("SIG", OutcomeFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.confidence))

	series, err := testutil.GatherAndCount(r.Registry(), "signal_evaluations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, series)
}

func TestRecorderWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveResult("SIG", detector.Result{Detected: true, Confidence: 0.75}, time.Millisecond)

	path := filepath.Join(t.TempDir(), "signals.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `signal_evaluations_total{outcome="detected",signal="SIG"} 1`)
}
