package page

import (
	"context"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Static is a Page backed by literal data. It never performs I/O, so every
// method succeeds and returns the same answer on every call.
type Static struct {
	url     string
	content string
	cookies []Cookie
	storage map[string]string
	tree    []Element
}

// NewStatic builds a page from an HTML string, an optional cookie list and an
// optional localStorage map. The inputs are copied.
func NewStatic(url, content string, cookies []Cookie, storage map[string]string) *Static {
	s := &Static{
		url:     url,
		content: content,
		cookies: slices.Clone(cookies),
		storage: maps.Clone(storage),
	}
	if s.storage == nil {
		s.storage = map[string]string{}
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err == nil {
		s.tree = buildChildren(doc)
	}
	return s
}

// URL implements Page.
func (s *Static) URL() string { return s.url }

// Content implements Page.
func (s *Static) Content(ctx context.Context) (string, error) {
	return s.content, nil
}

// Cookies implements Page.
func (s *Static) Cookies(ctx context.Context) ([]Cookie, error) {
	return slices.Clone(s.cookies), nil
}

// LocalStorage implements Page.
func (s *Static) LocalStorage(ctx context.Context) (map[string]string, error) {
	return maps.Clone(s.storage), nil
}

// QueryAll implements Page.
func (s *Static) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	tags, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []Element
	collect(s.tree, tags, &out)
	return out, nil
}

func buildChildren(n *html.Node) []Element {
	var out []Element
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, buildElement(c))
		}
	}
	return out
}

func buildElement(n *html.Node) Element {
	el := Element{
		Tag:        n.Data,
		Attributes: make(map[string]string, len(n.Attr)),
		Children:   buildChildren(n),
	}
	for _, a := range n.Attr {
		el.Attributes[strings.ToLower(a.Key)] = a.Val
	}

	var b strings.Builder
	innerText(n, true, &b)
	el.Text = strings.Join(strings.Fields(b.String()), " ")
	return el
}

// innerText approximates the DOM innerText: comments are ignored, and nested
// script/style bodies do not count towards an ancestor's text.
func innerText(n *html.Node, top bool, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if !top && isRawText(n.Data) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		innerText(c, false, b)
	}
}

func isRawText(tag string) bool {
	return tag == "script" || tag == "style"
}
