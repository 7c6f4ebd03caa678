// Package taxonomy maps the free-form category names produced by the backend
// onto a fixed set of canonical display categories.
package taxonomy

import (
	"regexp"
	"strings"
)

// Result is the outcome of normalizing a raw category name.
type Result struct {
	Key           string `json:"key"`
	CanonicalName string `json:"canonical_name"`
	Slug          string `json:"slug"`
	Icon          string `json:"icon"`
	Image         string `json:"image"`
	Color         string `json:"color"`
	Known         bool   `json:"known"`
}

var slugSeparators = regexp.MustCompile(`[\s/]+`)

// Slug lowercases name and collapses runs of whitespace and '/' into '-'.
func Slug(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Normalize never fails: names that match neither an alias nor a keyword get
// the fallback category with Known set to false.
func Normalize(raw string) Result {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return fallbackResult("")
	}

	slug := Slug(raw)
	if renamed, ok := renames[name]; ok {
		slug = Slug(renamed)
	}

	key, ok := resolve(name)
	if !ok {
		return fallbackResult(slug)
	}
	c := byKey[key]
	return Result{
		Key:           c.Key,
		CanonicalName: c.DisplayName,
		Slug:          slug,
		Icon:          c.Icon,
		Image:         c.Image,
		Color:         c.Color,
		Known:         true,
	}
}

// KeyOf returns the canonical key for raw, or "" when it is unknown.
func KeyOf(raw string) string {
	key, _ := resolve(strings.ToLower(strings.TrimSpace(raw)))
	return key
}

// DisplayName applies the legacy rename table to a backend category name and
// returns the name that should be shown.
func DisplayName(raw string) string {
	if renamed, ok := renames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return renamed
	}
	return raw
}

func resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if key, ok := byAlias[name]; ok {
		return key, true
	}
	// Separators are ignored for alias matching ("malt-drink", "dried_fruits").
	spaced := strings.Join(strings.FieldsFunc(name, isSeparator), " ")
	if key, ok := byAlias[spaced]; ok {
		return key, true
	}
	for _, rule := range keywordRules {
		if rule.matches(spaced) {
			return rule.key, true
		}
	}
	return "", false
}

func (r keywordRule) matches(name string) bool {
	for _, kw := range r.allOf {
		if !strings.Contains(name, kw) {
			return false
		}
	}
	if len(r.anyOf) == 0 {
		return len(r.allOf) > 0
	}
	for _, kw := range r.anyOf {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '-', '_', '/':
		return true
	}
	return false
}

func fallbackResult(slug string) Result {
	return Result{
		CanonicalName: fallback.DisplayName,
		Slug:          slug,
		Icon:          fallback.Icon,
		Image:         fallback.Image,
		Color:         fallback.Color,
	}
}
