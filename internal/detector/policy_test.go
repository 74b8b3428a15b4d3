package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) Policy {
	t.Helper()
	p, err := NewPolicy(
		Tier{Name: "strong", Confidence: 0.9, Require: map[string]bool{"a": true, "b": true, "c": false}},
		Tier{Name: "weak", Confidence: 0.5, Require: map[string]bool{"a": true, "c": false}},
	)
	require.NoError(t, err)
	return p
}

func TestPolicyEvaluateFirstMatchWins(t *testing.T) {
	p := testPolicy(t)

	v := p.Evaluate(Outcomes{"a": true, "b": true, "c": false})
	assert.Equal(t, "strong", v.Tier)
	assert.Equal(t, 0.9, v.Confidence)
	assert.True(t, v.Detected)
	assert.Equal(t, Evidence{"a": true, "b": true, "c": false}, v.Evidence)

	v = p.Evaluate(Outcomes{"a": true, "b": false, "c": false})
	assert.Equal(t, "weak", v.Tier)
	assert.Equal(t, Evidence{"a": true, "c": false}, v.Evidence)
}

func TestPolicyEvaluateMissOrMissingOutcomes(t *testing.T) {
	p := testPolicy(t)

	v := p.Evaluate(Outcomes{"a": true, "c": true})
	assert.Equal(t, Verdict{Tier: NoTier, Evidence: Evidence{}}, v)

	// Unreported outcomes read as false, so "c" satisfies c=false here.
	v = p.Evaluate(Outcomes{"a": true})
	assert.Equal(t, "weak", v.Tier)

	v = Policy{}.Evaluate(Outcomes{"a": true})
	assert.False(t, v.Detected)
	assert.Zero(t, v.Confidence)
}

func TestPolicyEvaluateReturnsFreshEvidence(t *testing.T) {
	p := testPolicy(t)
	first := p.Evaluate(Outcomes{"a": true})
	first.Evidence["extra"] = true

	second := p.Evaluate(Outcomes{"a": true})
	assert.NotContains(t, second.Evidence, "extra")
}

func TestNewPolicyRejectsBadTiers(t *testing.T) {
	cases := map[string][]Tier{
		"no tiers":        nil,
		"empty name":      {{Confidence: 0.5, Require: map[string]bool{"a": true}}},
		"reserved name":   {{Name: NoTier, Confidence: 0.5, Require: map[string]bool{"a": true}}},
		"zero confidence": {{Name: "t", Require: map[string]bool{"a": true}}},
		"above one":       {{Name: "t", Confidence: 1.2, Require: map[string]bool{"a": true}}},
		"no conditions":   {{Name: "t", Confidence: 0.5}},
		"duplicate": {
			{Name: "t", Confidence: 0.5, Require: map[string]bool{"a": true}},
			{Name: "t", Confidence: 0.4, Require: map[string]bool{"b": true}},
		},
	}
	for name, tiers := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPolicy(tiers...)
			require.ErrorIs(t, err, ErrInvalidPolicy)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestPolicyCopiesTiers(t *testing.T) {
	req := map[string]bool{"a": true}
	p, err := NewPolicy(Tier{Name: "t", Confidence: 0.5, Require: req})
	require.NoError(t, err)

	req["b"] = true
	assert.Equal(t, []string{"a"}, p.Checks())

	tiers := p.Tiers()
	tiers[0].Require["z"] = true
	assert.Equal(t, []string{"a"}, p.Checks())
}
