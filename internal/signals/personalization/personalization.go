// Package personalization implements the CONTENT_PERSONALIZATION_GAP signal:
// sites that run user accounts but show every visitor the same content.
package personalization

import "github.com/example/signal-worker/internal/detector"

// SignalID identifies the signal in the catalog and in results.
const SignalID = "CONTENT_PERSONALIZATION_GAP"

// Check names. They are also the evidence keys reported for a matched tier.
const (
	CheckAccountSystem   = "userAccountSystem"
	CheckDataCollection  = "userDataCollection"
	CheckPersonalization = "personalizationDetected"
	CheckAmbiguous       = "ambiguousPersonalization"
)

// Identity is the static metadata of the signal.
var Identity = detector.Identity{
	SignalID:    SignalID,
	Name:        "Content Personalization Gap",
	Description: "Detects websites with user accounts but lacking personalized content",
	Category:    "Marketing Technology Signals",
}

// Policy is evaluated top to bottom. The first tier implies the second, and
// the third is only reachable once personalization was seen on the page.
// Personalization and ambiguous vocabulary can both be present; the
// personalization check wins because it gates the first two tiers.
var Policy = detector.MustPolicy(
	detector.Tier{
		Name:       "account-data-no-personalization",
		Confidence: 0.95,
		Require: map[string]bool{
			CheckAccountSystem:   true,
			CheckDataCollection:  true,
			CheckPersonalization: false,
		},
	},
	detector.Tier{
		Name:       "account-no-personalization",
		Confidence: 0.75,
		Require: map[string]bool{
			CheckAccountSystem:   true,
			CheckPersonalization: false,
		},
	},
	detector.Tier{
		Name:       "account-ambiguous-personalization",
		Confidence: 0.60,
		Require: map[string]bool{
			CheckAccountSystem: true,
			CheckAmbiguous:     true,
		},
	},
)

// Checks returns the heuristic checks of the signal.
func Checks() []detector.Check {
	return []detector.Check{
		{Name: CheckAccountSystem, Eval: hasAccountSystem},
		{Name: CheckDataCollection, Eval: hasUserDataCollection},
		{Name: CheckPersonalization, Eval: hasPersonalization},
		{Name: CheckAmbiguous, Eval: hasAmbiguousPersonalization},
	}
}

// New builds the detector.
func New() (*detector.Tiered, error) {
	return detector.New(Identity, Checks(), Policy)
}
