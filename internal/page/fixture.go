package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// blankURL is used for fixtures that do not declare the page address.
const blankURL = "about:blank"

// Fixture is the on-disk form of a page snapshot.
//
//	url: https://shop.example/
//	html: |
//	  <a href="/login">Sign In</a>
//	cookies:
//	  - name: user_pref
//	    value: currency=USD
//	localStorage:
//	  cart: "3"
type Fixture struct {
	URL          string            `yaml:"url"`
	HTML         string            `yaml:"html"`
	Cookies      []Cookie          `yaml:"cookies"`
	LocalStorage map[string]string `yaml:"localStorage"`
}

// LoadFixture reads a YAML fixture and returns it as a static page.
func LoadFixture(path string) (*Static, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	for i, c := range fx.Cookies {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("fixture %s: cookie %d has no name", path, i)
		}
	}

	url := strings.TrimSpace(fx.URL)
	if url == "" {
		url = blankURL
	}
	return NewStatic(url, fx.HTML, fx.Cookies, fx.LocalStorage), nil
}

// IsFixture reports whether a target names a fixture file rather than a URL.
func IsFixture(target string) bool {
	if strings.Contains(target, "://") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(target))
	return ext == ".yml" || ext == ".yaml"
}
