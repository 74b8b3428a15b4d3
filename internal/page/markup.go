package page

import (
	"strings"

	"golang.org/x/net/html"
)

// RenderedMarkup returns content with HTML comments and script/style bodies
// removed. Tags and attributes are kept verbatim.
func RenderedMarkup(content string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	b.Grow(len(content))

	skip := ""
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.CommentToken:
			continue
		case html.StartTagToken:
			name, _ := z.TagName()
			if skip == "" && isRawText(string(name)) {
				skip = string(name)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skip != "" && string(name) == skip {
				skip = ""
			}
		case html.TextToken:
			if skip != "" {
				continue
			}
		}
		b.Write(z.Raw())
	}
}
