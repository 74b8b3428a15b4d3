package detector

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// NoTier names the verdict produced when no tier matches.
const NoTier = "none"

// Tier is one row of a confidence policy. It matches when every check in
// Require has the required outcome; outcomes that were not reported count
// as false.
type Tier struct {
	Name       string
	Confidence float64
	Require    map[string]bool
}

func (t Tier) matches(o Outcomes) bool {
	for name, want := range t.Require {
		if o[name] != want {
			return false
		}
	}
	return true
}

// Policy is an ordered list of tiers. The first matching tier decides the
// verdict, so a tier whose condition implies a later one must come first.
type Policy struct {
	tiers []Tier
}

// Verdict is the outcome of evaluating a policy.
type Verdict struct {
	Tier       string
	Detected   bool
	Confidence float64
	Evidence   Evidence
}

// NewPolicy validates and copies tiers.
func NewPolicy(tiers ...Tier) (Policy, error) {
	if len(tiers) == 0 {
		return Policy{}, &ConfigError{Reason: "policy has no tiers", Err: ErrInvalidPolicy}
	}

	seen := map[string]struct{}{}
	out := make([]Tier, 0, len(tiers))
	for i, t := range tiers {
		name := strings.TrimSpace(t.Name)
		switch {
		case name == "" || name == NoTier:
			return Policy{}, &ConfigError{Reason: fmt.Sprintf("tier %d has invalid name %q", i, t.Name), Err: ErrInvalidPolicy}
		case t.Confidence <= 0 || t.Confidence > 1:
			return Policy{}, &ConfigError{Reason: fmt.Sprintf("tier %s confidence %v outside (0,1]", name, t.Confidence), Err: ErrInvalidPolicy}
		case len(t.Require) == 0:
			return Policy{}, &ConfigError{Reason: fmt.Sprintf("tier %s has no conditions", name), Err: ErrInvalidPolicy}
		}
		if _, dup := seen[name]; dup {
			return Policy{}, &ConfigError{Reason: fmt.Sprintf("duplicate tier %s", name), Err: ErrInvalidPolicy}
		}
		seen[name] = struct{}{}
		out = append(out, Tier{Name: name, Confidence: t.Confidence, Require: maps.Clone(t.Require)})
	}
	return Policy{tiers: out}, nil
}

// MustPolicy is like NewPolicy but panics on error.
func MustPolicy(tiers ...Tier) Policy {
	p, err := NewPolicy(tiers...)
	if err != nil {
		panic(err)
	}
	return p
}

// Tiers returns a copy of the policy rows in evaluation order.
func (p Policy) Tiers() []Tier {
	out := make([]Tier, len(p.tiers))
	for i, t := range p.tiers {
		out[i] = Tier{Name: t.Name, Confidence: t.Confidence, Require: maps.Clone(t.Require)}
	}
	return out
}

// Checks returns the sorted names of every check the policy consults.
func (p Policy) Checks() []string {
	set := map[string]struct{}{}
	for _, t := range p.tiers {
		for name := range t.Require {
			set[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Evaluate maps outcomes to a verdict. The evidence of a matched tier holds
// exactly that tier's conditions; a miss yields an empty evidence record.
func (p Policy) Evaluate(o Outcomes) Verdict {
	for _, t := range p.tiers {
		if !t.matches(o) {
			continue
		}
		evidence := make(Evidence, len(t.Require))
		for name, want := range t.Require {
			evidence[name] = want
		}
		return Verdict{Tier: t.Name, Detected: true, Confidence: t.Confidence, Evidence: evidence}
	}
	return Verdict{Tier: NoTier, Evidence: Evidence{}}
}
