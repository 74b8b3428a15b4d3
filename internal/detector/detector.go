package detector

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/example/signal-worker/internal/page"
)

var (
	// ErrInvalidIdentity is wrapped by ConfigError for bad identity metadata.
	ErrInvalidIdentity = errors.New("invalid detector identity")
	// ErrInvalidPolicy is wrapped by ConfigError for bad checks or tiers.
	ErrInvalidPolicy = errors.New("invalid detector policy")
)

// ConfigError reports a detector that cannot be constructed. It is never
// retried.
type ConfigError struct {
	Signal string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Signal == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Signal, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Identity is the static metadata of a signal detector.
type Identity struct {
	SignalID    string `json:"signalId"`
	Name        string `json:"signalName"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Validate checks the fields every detector must carry.
func (id Identity) Validate() error {
	if strings.TrimSpace(id.SignalID) == "" {
		return &ConfigError{Reason: "signal id is empty", Err: ErrInvalidIdentity}
	}
	if strings.TrimSpace(id.Category) == "" {
		return &ConfigError{Signal: id.SignalID, Reason: "category is empty", Err: ErrInvalidIdentity}
	}
	return nil
}

// Evidence holds the named observations behind one verdict.
type Evidence map[string]any

// Clone returns a copy that can be modified without affecting e.
func (e Evidence) Clone() Evidence {
	if e == nil {
		return Evidence{}
	}
	return maps.Clone(e)
}

// Result is the verdict of one detector for one page.
type Result struct {
	SignalID   string   `json:"signalId"`
	Detected   bool     `json:"detected"`
	Confidence float64  `json:"confidence"`
	Evidence   Evidence `json:"evidence"`
}

// Detector is implemented by every signal in the catalog. Detect returns an
// error only when the page itself cannot be read; a missing pattern is a
// negative result, not an error. Implementations must be safe for concurrent
// use with different pages.
type Detector interface {
	Identity() Identity
	Detect(ctx context.Context, p page.Page) (Result, error)
}
