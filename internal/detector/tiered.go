package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/signal-worker/internal/page"
)

// Tiered is a Detector built from a set of checks and a confidence policy.
// It holds no per-call state.
type Tiered struct {
	identity Identity
	checks   []Check
	policy   Policy
}

// New validates identity and wiring and returns a ready detector.
func New(identity Identity, checks []Check, policy Policy) (*Tiered, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if len(policy.tiers) == 0 {
		return nil, &ConfigError{Signal: identity.SignalID, Reason: "policy has no tiers", Err: ErrInvalidPolicy}
	}

	known := make(map[string]struct{}, len(checks))
	for _, c := range checks {
		if strings.TrimSpace(c.Name) == "" || c.Eval == nil {
			return nil, &ConfigError{Signal: identity.SignalID, Reason: "check without name or function", Err: ErrInvalidPolicy}
		}
		if _, dup := known[c.Name]; dup {
			return nil, &ConfigError{Signal: identity.SignalID, Reason: fmt.Sprintf("duplicate check %s", c.Name), Err: ErrInvalidPolicy}
		}
		known[c.Name] = struct{}{}
	}
	for _, name := range policy.Checks() {
		if _, ok := known[name]; !ok {
			return nil, &ConfigError{Signal: identity.SignalID, Reason: fmt.Sprintf("policy references unknown check %s", name), Err: ErrInvalidPolicy}
		}
	}

	return &Tiered{
		identity: identity,
		checks:   append([]Check(nil), checks...),
		policy:   policy,
	}, nil
}

// Identity implements Detector.
func (d *Tiered) Identity() Identity { return d.identity }

// Policy returns the confidence policy the detector applies.
func (d *Tiered) Policy() Policy { return d.policy }

// Detect implements Detector. Page read failures are returned unchanged and
// no result is produced.
func (d *Tiered) Detect(ctx context.Context, p page.Page) (Result, error) {
	outcomes, err := RunChecks(ctx, p, d.checks)
	if err != nil {
		return Result{}, err
	}

	v := d.policy.Evaluate(outcomes)
	return Result{
		SignalID:   d.identity.SignalID,
		Detected:   v.Detected,
		Confidence: v.Confidence,
		Evidence:   v.Evidence,
	}, nil
}
