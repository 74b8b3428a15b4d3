package detector

import (
	"fmt"
	"regexp"
)

// Vocabulary is a named set of case-insensitive patterns. A string matches
// when any pattern matches.
type Vocabulary struct {
	Name     string
	patterns []*regexp.Regexp
}

// NewVocabulary compiles exprs with case folding enabled.
func NewVocabulary(name string, exprs ...string) (Vocabulary, error) {
	v := Vocabulary{Name: name, patterns: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return Vocabulary{}, fmt.Errorf("vocabulary %s: %w", name, err)
		}
		v.patterns = append(v.patterns, re)
	}
	return v, nil
}

// MustVocabulary is like NewVocabulary but panics on a bad expression. It is
// meant for package-level pattern tables.
func MustVocabulary(name string, exprs ...string) Vocabulary {
	v, err := NewVocabulary(name, exprs...)
	if err != nil {
		panic(err)
	}
	return v
}

// Match reports whether s matches any pattern. Empty input never matches.
func (v Vocabulary) Match(s string) bool {
	if s == "" {
		return false
	}
	for _, re := range v.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any of values matches.
func (v Vocabulary) MatchAny(values ...string) bool {
	for _, s := range values {
		if v.Match(s) {
			return true
		}
	}
	return false
}

// Patterns returns the source expressions, without the case-folding flag.
func (v Vocabulary) Patterns() []string {
	out := make([]string, len(v.patterns))
	for i, re := range v.patterns {
		out[i] = re.String()[len(`(?i)`):]
	}
	return out
}
