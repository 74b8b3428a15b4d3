package page

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const navHTML = `<html><body>
<nav>
  <a href="/login" class="nav"> Sign
     In </a>
  <button type="button">Register <span>now</span></button>
</nav>
<form id="signup">
  <div><input type="email" name="email"></div>
  <input name="nick">
</form>
<script src="/app.js"></script>
<script>track("view")</script>
</body></html>`

func TestStaticQueryAll(t *testing.T) {
	p := NewStatic("https://site.test/", navHTML, nil, nil)
	ctx := context.Background()

	links, err := p.QueryAll(ctx, "a, BUTTON")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "a", links[0].Tag)
	assert.Equal(t, "Sign In", links[0].Text)
	assert.Equal(t, "/login", links[0].Attr("HREF"))
	assert.Equal(t, "Register now", links[1].Text)

	forms, err := p.QueryAll(ctx, "form")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	inputs := forms[0].Find("input")
	require.Len(t, inputs, 2)
	assert.Equal(t, "email", inputs[0].Attr("type"))
	assert.Equal(t, "", inputs[1].Attr("type"))

	scripts, err := p.QueryAll(ctx, "script")
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.Equal(t, "/app.js", scripts[0].Attr("src"))
	assert.Equal(t, `track("view")`, scripts[1].Text)

	none, err := p.QueryAll(ctx, "table")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStaticQueryAllRejectsComplexSelectors(t *testing.T) {
	p := NewStatic("", navHTML, nil, nil)
	for _, sel := range []string{"", "a.nav", "form input", "#signup", "a,"} {
		_, err := p.QueryAll(context.Background(), sel)
		assert.True(t, errors.Is(err, ErrUnsupportedSelector), "selector %q", sel)
	}
}

func TestStaticTextSkipsNestedScripts(t *testing.T) {
	p := NewStatic("", `<div id="x">Hello <script>var a = 1;</script><!-- note -->world</div>`, nil, nil)
	divs, err := p.QueryAll(context.Background(), "div")
	require.NoError(t, err)
	require.Len(t, divs, 1)
	assert.Equal(t, "Hello world", divs[0].Text)
}

func TestStaticCopiesInputs(t *testing.T) {
	cookies := []Cookie{{Name: "a", Value: "1"}}
	storage := map[string]string{"k": "v"}
	p := NewStatic("", "", cookies, storage)

	cookies[0].Name = "changed"
	storage["k"] = "changed"

	got, err := p.Cookies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Cookie{{Name: "a", Value: "1"}}, got)

	got[0].Name = "mutated"
	again, _ := p.Cookies(context.Background())
	assert.Equal(t, "a", again[0].Name)

	st, err := p.LocalStorage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k": "v"}, st)
}

func TestStaticEmptyInputs(t *testing.T) {
	p := NewStatic("", "", nil, nil)
	ctx := context.Background()

	content, err := p.Content(ctx)
	require.NoError(t, err)
	assert.Empty(t, content)

	cookies, err := p.Cookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, cookies)

	st, err := p.LocalStorage(ctx)
	require.NoError(t, err)
	assert.NotNil(t, st)
	assert.Empty(t, st)
}

func TestRenderedMarkup(t *testing.T) {
	in := `<p class="a">Hi<!-- secret --></p><script src="/x.js">load()</script><style>.b{}</style><em>end</em>`
	assert.Equal(t, `<p class="a">Hi</p><script src="/x.js"></script><style></style><em>end</em>`, RenderedMarkup(in))
	assert.Equal(t, "", RenderedMarkup(""))
	assert.Equal(t, "plain text", RenderedMarkup("plain text"))
}
