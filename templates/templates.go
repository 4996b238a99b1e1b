// Package templates provides a library of RetroScript code snippets for
// common automation patterns. Bodies use LSP-style ${n:placeholder} tab
// stops so editors can cycle through the blanks after insertion.
package templates

import (
	"fmt"
	"regexp"
	"strings"
)

// Category groups snippets in the insert menu.
type Category string

const (
	CategoryBasic         Category = "basic"
	CategoryGameBot       Category = "game_bot"
	CategoryErrorHandling Category = "error_handling"
	CategoryUtility       Category = "utility"
)

// Snippet is a parameterized code template. Prefix is the trigger text
// typed in the editor.
type Snippet struct {
	Name        string
	Description string
	Category    Category
	Prefix      string
	Body        string
}

// Library indexes snippets by trigger prefix.
type Library struct {
	snippets []Snippet
	byPrefix map[string]Snippet
}

// NewLibrary returns a library preloaded with the default catalog.
func NewLibrary() *Library {
	l := &Library{byPrefix: map[string]Snippet{}}
	for _, s := range defaultCatalog {
		l.Add(s)
	}
	return l
}

// Add registers a snippet. A later snippet with the same prefix
// replaces the earlier one in prefix lookups.
func (l *Library) Add(s Snippet) {
	l.snippets = append(l.snippets, s)
	l.byPrefix[s.Prefix] = s
}

// ByPrefix returns the snippet registered for a trigger prefix.
func (l *Library) ByPrefix(prefix string) (Snippet, bool) {
	s, ok := l.byPrefix[prefix]
	return s, ok
}

// ByCategory returns all snippets in a category, in catalog order.
func (l *Library) ByCategory(c Category) []Snippet {
	var out []Snippet
	for _, s := range l.snippets {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}

// Search matches the query against snippet names, descriptions and
// prefixes, case-insensitively.
func (l *Library) Search(query string) []Snippet {
	q := strings.ToLower(query)
	var out []Snippet
	for _, s := range l.snippets {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Description), q) ||
			strings.Contains(strings.ToLower(s.Prefix), q) {
			out = append(out, s)
		}
	}
	return out
}

// All returns every snippet in catalog order.
func (l *Library) All() []Snippet {
	return append([]Snippet(nil), l.snippets...)
}

var placeholderRe = regexp.MustCompile(`\$\{(\d+)(?::([^}]*))?\}|\$(\d+)`)

// Expand fills a snippet's placeholders. Values maps tab-stop numbers
// to replacement text; unfilled stops keep their placeholder default.
func (l *Library) Expand(prefix string, values map[string]string) (string, error) {
	s, ok := l.byPrefix[prefix]
	if !ok {
		return "", fmt.Errorf("unknown snippet prefix: %s", prefix)
	}

	expanded := placeholderRe.ReplaceAllStringFunc(s.Body, func(m string) string {
		groups := placeholderRe.FindStringSubmatch(m)
		num := groups[1]
		if num == "" {
			num = groups[3]
		}
		if v, ok := values[num]; ok {
			return v
		}
		return groups[2]
	})
	return expanded, nil
}
