// Package i18n translates UI strings from embedded YAML catalogs.
package i18n

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed en.yaml
var english []byte

var placeholder = regexp.MustCompile(`%\{(\w+)\}`)

// Catalog maps keys to translated templates.
type Catalog struct {
	messages map[string]string
}

// Parse loads a catalog from YAML.
func Parse(raw []byte) (*Catalog, error) {
	var m map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return &Catalog{messages: m}, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(english)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the embedded English catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// T translates key and substitutes %{name} placeholders. Unknown keys are
// used as the template themselves; unknown placeholders are left as-is.
func (c *Catalog) T(key string, subs map[string]string) string {
	tmpl, ok := c.messages[key]
	if !ok {
		tmpl = key
	}
	if len(subs) == 0 {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := subs[name]; ok {
			return v
		}
		return m
	})
}

// Has reports whether key is in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

// T translates with the default catalog.
func T(key string, subs ...map[string]string) string {
	var s map[string]string
	if len(subs) > 0 {
		s = subs[0]
	}
	return Default().T(key, s)
}
