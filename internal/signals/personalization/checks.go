package personalization

import (
	"context"
	"strings"

	"github.com/example/signal-worker/internal/page"
)

func hasAccountSystem(ctx context.Context, p page.Page) (bool, error) {
	if accountURL.Match(p.URL()) {
		return true, nil
	}

	links, err := p.QueryAll(ctx, "a, button")
	if err != nil {
		return false, err
	}
	for _, el := range links {
		if accountLinkText.Match(el.Text) {
			return true, nil
		}
	}

	markup, err := renderedMarkup(ctx, p)
	if err != nil {
		return false, err
	}
	return accountMarkup.Match(markup), nil
}

func hasUserDataCollection(ctx context.Context, p page.Page) (bool, error) {
	cookies, err := p.Cookies(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range cookies {
		if userStateKey.Match(c.Name) {
			return true, nil
		}
	}

	storage, err := p.LocalStorage(ctx)
	if err != nil {
		return false, err
	}
	for key := range storage {
		if userStateKey.Match(key) {
			return true, nil
		}
	}

	forms, err := p.QueryAll(ctx, "form")
	if err != nil {
		return false, err
	}
	for _, form := range forms {
		for _, input := range form.Find("input") {
			if collectsPersonalData(input) {
				return true, nil
			}
		}
	}
	return false, nil
}

func collectsPersonalData(input page.Element) bool {
	typ := strings.ToLower(strings.TrimSpace(input.Attr("type")))
	if typ == "" {
		typ = "text"
	}
	if _, ok := dataInputTypes[typ]; !ok {
		return false
	}
	return personalDataField.Match(input.Attr("name") + " " + input.Attr("id"))
}

func hasPersonalization(ctx context.Context, p page.Page) (bool, error) {
	markup, err := renderedMarkup(ctx, p)
	if err != nil {
		return false, err
	}
	if personalizationMarkup.Match(markup) {
		return true, nil
	}

	scripts, err := p.QueryAll(ctx, "script")
	if err != nil {
		return false, err
	}
	for _, s := range scripts {
		if personalizationScript.MatchAny(s.Text, s.Attr("src")) {
			return true, nil
		}
	}
	return false, nil
}

func hasAmbiguousPersonalization(ctx context.Context, p page.Page) (bool, error) {
	markup, err := renderedMarkup(ctx, p)
	if err != nil {
		return false, err
	}
	return ambiguousMarkup.Match(markup), nil
}

// renderedMarkup is the page content without comments or script bodies;
// scripts are inspected separately.
func renderedMarkup(ctx context.Context, p page.Page) (string, error) {
	content, err := p.Content(ctx)
	if err != nil {
		return "", err
	}
	return page.RenderedMarkup(content), nil
}
