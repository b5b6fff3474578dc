// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"
)

// Code is a machine-readable error code (duplicated from errors package to avoid a cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

func register(c *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[strings.ToLower(c.locale)] = c
}

// GetCatalog returns the catalog for the given locale.
// Falls back to en-US if the locale is not found. Two-letter language
// requests resolve to the first registered regional catalog for that
// language (e.g. "de" matches "de-DE").
func GetCatalog(locale string) *Catalog {
	requested := strings.ToLower(strings.TrimSpace(locale))

	catalogsMu.RLock()
	defer catalogsMu.RUnlock()

	if c, ok := catalogs[requested]; ok {
		return c
	}
	if lang, _, found := strings.Cut(requested, "-"); found {
		if c, ok := catalogs[lang]; ok {
			return c
		}
	}
	for key, c := range catalogs {
		if strings.HasPrefix(key, requested+"-") && requested != "" {
			return c
		}
	}
	return catalogs["en-us"]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
