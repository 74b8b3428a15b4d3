package events

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity attached to an event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event types emitted by the worker.
const (
	TypeScanStart       = "scan-start"
	TypeScanPlan        = "scan-plan"
	TypeSignalResult    = "signal-result"
	TypeSignalFailed    = "signal-failed"
	TypeArtifactWritten = "artifact-written"
	TypeScanFinished    = "scan-finished"
	TypeReport          = "report"
)

// Event represents a single NDJSON record for worker-friendly logs.
type Event struct {
	Type      string                 `json:"type"`
	Level     Level                  `json:"level,omitempty"`
	RunID     string                 `json:"runId,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Message   string                 `json:"message,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Emitter writes NDJSON events to an io.Writer safely across goroutines.
type Emitter struct {
	writer io.Writer
	runID  string
	mu     *sync.Mutex
}

// NewEmitter returns a new NDJSON emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w, mu: &sync.Mutex{}}
}

// NewRunID returns a fresh identifier for correlating the events of one run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID returns an emitter that stamps runID on every event. It shares
// the writer and lock of e.
func (e *Emitter) WithRunID(runID string) *Emitter {
	return &Emitter{writer: e.writer, runID: runID, mu: e.mu}
}

// RunID returns the run identifier stamped on events, if any.
func (e *Emitter) RunID() string { return e.runID }

// Emit serializes the event to JSON and appends a newline.
func (e *Emitter) Emit(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if evt.Level == "" {
		evt.Level = LevelInfo
	}
	if evt.RunID == "" {
		evt.RunID = e.runID
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.writer.Write(append(payload, '\n')); err != nil {
		return err
	}

	return nil
}
