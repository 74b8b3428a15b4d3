package detector

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signal-worker/internal/page"
)

func constCheck(name string, v bool) Check {
	return Check{Name: name, Eval: func(context.Context, page.Page) (bool, error) { return v, nil }}
}

var testIdentity = Identity{SignalID: "TEST_SIGNAL", Name: "Test", Category: "Testing"}

func TestNewValidatesIdentity(t *testing.T) {
	policy := MustPolicy(Tier{Name: "t", Confidence: 0.5, Require: map[string]bool{"a": true}})
	checks := []Check{constCheck("a", true)}

	_, err := New(Identity{Category: "x"}, checks, policy)
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = New(Identity{SignalID: "X"}, checks, policy)
	require.ErrorIs(t, err, ErrInvalidIdentity)
	assert.Contains(t, err.Error(), "category")
}

func TestNewValidatesWiring(t *testing.T) {
	policy := MustPolicy(Tier{Name: "t", Confidence: 0.5, Require: map[string]bool{"a": true, "b": false}})

	_, err := New(testIdentity, []Check{constCheck("a", true)}, policy)
	require.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = New(testIdentity, []Check{constCheck("a", true), constCheck("a", false)}, policy)
	require.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = New(testIdentity, []Check{{Name: "a"}}, policy)
	require.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = New(testIdentity, []Check{constCheck("a", true)}, Policy{})
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestTieredDetect(t *testing.T) {
	policy := MustPolicy(Tier{Name: "t", Confidence: 0.7, Require: map[string]bool{"a": true, "b": false}})
	d, err := New(testIdentity, []Check{constCheck("a", true), constCheck("b", false), constCheck("c", true)}, policy)
	require.NoError(t, err)
	assert.Equal(t, policy.Tiers(), d.Policy().Tiers())
	assert.Equal(t, testIdentity, d.Identity())

	res, err := d.Detect(context.Background(), page.NewStatic("", "", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, Result{
		SignalID:   "TEST_SIGNAL",
		Detected:   true,
		Confidence: 0.7,
		Evidence:   Evidence{"a": true, "b": false},
	}, res)
}

func TestTieredDetectPropagatesFault(t *testing.T) {
	fault := errors.New("navigation failed")
	failing := Check{Name: "b", Eval: func(context.Context, page.Page) (bool, error) { return false, fault }}
	policy := MustPolicy(Tier{Name: "t", Confidence: 0.7, Require: map[string]bool{"a": true}})

	d, err := New(testIdentity, []Check{constCheck("a", true), failing}, policy)
	require.NoError(t, err)

	res, err := d.Detect(context.Background(), page.NewStatic("", "", nil, nil))
	require.Equal(t, fault, err)
	assert.Equal(t, Result{}, res)
}

func TestTieredDetectConcurrentCalls(t *testing.T) {
	policy := MustPolicy(Tier{Name: "t", Confidence: 0.7, Require: map[string]bool{"a": true}})
	d, err := New(testIdentity, []Check{constCheck("a", true)}, policy)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := d.Detect(context.Background(), page.NewStatic("", "", nil, nil))
			if err == nil {
				results[i] = res
			}
		}()
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, results[0], res)
	}
	results[0].Evidence["mutated"] = true
	assert.NotContains(t, results[1].Evidence, "mutated")
}

func TestVocabulary(t *testing.T) {
	v := MustVocabulary("auth", `sign[\s-]?in`, `password`)

	assert.True(t, v.Match("Please SIGN-IN"))
	assert.True(t, v.MatchAny("", "forgot Password?"))
	assert.False(t, v.Match(""))
	assert.False(t, v.Match("about us"))
	assert.Equal(t, []string{`sign[\s-]?in`, `password`}, v.Patterns())

	_, err := NewVocabulary("bad", `(`)
	require.Error(t, err)
}
