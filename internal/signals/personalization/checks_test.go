package personalization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signal-worker/internal/page"
)

func eval(t *testing.T, fn func(context.Context, page.Page) (bool, error), p page.Page) bool {
	t.Helper()
	ok, err := fn(context.Background(), p)
	require.NoError(t, err)
	return ok
}

func TestHasAccountSystem(t *testing.T) {
	cases := []struct {
		name string
		url  string
		html string
		want bool
	}{
		{"account url", "https://shop.test/account/orders", "", true},
		{"login button", "https://shop.test/", `<button>Log-In</button>`, true},
		{"password field in markup", "https://shop.test/", `<input type="password" name="pw">`, true},
		{"forgot password text", "https://shop.test/", `<p>Forgot password?</p>`, true},
		{"vocabulary only in comment", "https://shop.test/", `<!-- sign in coming soon --><p>Hello</p>`, false},
		{"nothing", "https://shop.test/", `<a href="/about">About</a>`, false},
		{"empty page", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval(t, hasAccountSystem, page.NewStatic(tc.url, tc.html, nil, nil)))
		})
	}
}

func TestHasUserDataCollection(t *testing.T) {
	cases := []struct {
		name    string
		html    string
		cookies []page.Cookie
		storage map[string]string
		want    bool
	}{
		{name: "auth cookie", cookies: []page.Cookie{{Name: "AUTH_TOKEN"}}, want: true},
		{name: "unrelated cookie", cookies: []page.Cookie{{Name: "_ga"}}, want: false},
		{name: "storage key", storage: map[string]string{"userSettings": "{}"}, want: true},
		{name: "unrelated storage key", storage: map[string]string{"theme": "dark"}, want: false},
		{name: "email input", html: `<form><input type="email" id="newsletter-email"></form>`, want: true},
		{name: "untyped name input", html: `<form><input name="full_name"></form>`, want: true},
		{name: "tel input", html: `<form><div><input type="tel" name="phone"></div></form>`, want: true},
		{name: "checkbox ignored", html: `<form><input type="checkbox" name="user_terms"></form>`, want: false},
		{name: "input outside form", html: `<input type="email" name="email">`, want: false},
		{name: "search form", html: `<form><input type="text" name="q"></form>`, want: false},
		{name: "empty", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := page.NewStatic("https://shop.test/", tc.html, tc.cookies, tc.storage)
			assert.Equal(t, tc.want, eval(t, hasUserDataCollection, p))
		})
	}
}

func TestHasPersonalization(t *testing.T) {
	cases := []struct {
		name string
		html string
		want bool
	}{
		{"recommended for you", `<h2>Recommended-for-you</h2>`, true},
		{"based on your", `<p>Based on your history</p>`, true},
		{"you may also like", `<h3>You may also like</h3>`, true},
		{"recently viewed", `<div>Recently viewed</div>`, true},
		{"inline script", `<script>initSuggestions()</script>`, true},
		{"script src", `<script src="/js/personalise.js"></script>`, true},
		{"generic featured", `<h2>Featured Products</h2>`, false},
		{"comment only", `<!-- personalized widget removed -->`, false},
		{"empty", ``, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval(t, hasPersonalization, page.NewStatic("", tc.html, nil, nil)))
		})
	}
}

func TestHasAmbiguousPersonalization(t *testing.T) {
	cases := []struct {
		name string
		html string
		want bool
	}{
		{"customer experience", `<p>Great customer-experience</p>`, true},
		{"settings link", `<a href="/settings">Settings</a>`, true},
		{"script only", `<script>var userPreferences = {};</script>`, false},
		{"plain", `<p>Welcome</p>`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eval(t, hasAmbiguousPersonalization, page.NewStatic("", tc.html, nil, nil)))
		})
	}
}
