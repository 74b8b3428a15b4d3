// Package page provides the read-only page snapshots that signal detectors
// evaluate, together with the backends that produce them.
package page

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedSelector is returned by QueryAll for selectors other than a
// comma-separated list of tag names.
var ErrUnsupportedSelector = errors.New("unsupported selector")

// Page is the view of a rendered page that detectors read from. Implementations
// must not change what they return for the lifetime of a detection call.
type Page interface {
	URL() string
	Content(ctx context.Context) (string, error)
	Cookies(ctx context.Context) ([]Cookie, error)
	LocalStorage(ctx context.Context) (map[string]string, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Cookie is a single name/value pair visible to the page.
type Cookie struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Element is a snapshot of one DOM element. Children holds the element
// children in document order; text nodes are folded into Text.
type Element struct {
	Tag        string
	Text       string
	Attributes map[string]string
	Children   []Element
}

// Attr returns the named attribute or an empty string.
func (e Element) Attr(name string) string {
	return e.Attributes[strings.ToLower(name)]
}

// Find returns every descendant whose tag is one of tags, in document order.
func (e Element) Find(tags ...string) []Element {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = struct{}{}
	}
	var out []Element
	collect(e.Children, want, &out)
	return out
}

func collect(elems []Element, want map[string]struct{}, out *[]Element) {
	for _, el := range elems {
		if _, ok := want[el.Tag]; ok {
			*out = append(*out, el)
		}
		collect(el.Children, want, out)
	}
}

// parseSelector accepts "a", "a, button" and similar tag lists.
func parseSelector(selector string) (map[string]struct{}, error) {
	tags := map[string]struct{}{}
	for _, part := range strings.Split(selector, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if !isTagName(tag) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedSelector, selector)
		}
		tags[tag] = struct{}{}
	}
	return tags, nil
}

func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
