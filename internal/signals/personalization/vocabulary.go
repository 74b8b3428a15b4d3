package personalization

import "github.com/example/signal-worker/internal/detector"

var (
	accountURL = detector.MustVocabulary("account-url",
		`(login|signin|account|profile|register)`,
	)
	accountLinkText = detector.MustVocabulary("account-link-text",
		`(log[\s-]?in|sign[\s-]?in|my[\s-]?account|register|profile)`,
	)
	accountMarkup = detector.MustVocabulary("account-markup",
		`(sign[\s-]?in|log[\s-]?in|account|register|my[\s-]?profile)`,
		`(username|password|forgot[\s-]?password|create[\s-]?account)`,
	)

	// Cookie names and localStorage keys.
	userStateKey = detector.MustVocabulary("user-state-key",
		`(user|pref|session|login|auth|account)`,
	)
	personalDataField = detector.MustVocabulary("personal-data-field",
		`(email|name|phone|user|address)`,
	)

	personalizationMarkup = detector.MustVocabulary("personalization-markup",
		`(recommended[\s-]?for[\s-]?you|because[\s-]?you|personalized|tailored[\s-]?for[\s-]?you)`,
		`(your[\s-]?recommendations|based[\s-]?on[\s-]?your)`,
		`(you[\s-]?might[\s-]?(?:also[\s-]?)?like|you[\s-]?may[\s-]?(?:also[\s-]?)?like)`,
		`(recently[\s-]?viewed|your[\s-]?recently[\s-]?viewed)`,
	)
	personalizationScript = detector.MustVocabulary("personalization-script",
		`(recommend|personali[sz]|suggest)`,
	)

	ambiguousMarkup = detector.MustVocabulary("ambiguous-personalization-markup",
		`(customer[\s-]?experience|user[\s-]?experience)`,
		`(preferences|settings|customize)`,
	)
)

// dataInputTypes are the input types that can carry personal data. An input
// without a type attribute is a text input.
var dataInputTypes = map[string]struct{}{
	"email": {},
	"tel":   {},
	"text":  {},
}
