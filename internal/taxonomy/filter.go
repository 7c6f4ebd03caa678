package taxonomy

import (
	"strings"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// filterKeyword reduces a category URL slug to the keyword products are
// matched against.
func filterKeyword(slug string) string {
	s := strings.TrimSpace(strings.NewReplacer("-", " ", "/", " ").Replace(strings.ToLower(slug)))
	has := strings.Contains
	switch {
	case has(s, "almond"):
		return "almond"
	case has(s, "cashew"):
		return "cashew"
	case has(s, "walnut"):
		return "walnut"
	case has(s, "pista"):
		return "pista"
	case has(s, "date"):
		return "date"
	case has(s, "fig"), has(s, "anjeer"):
		return "fig"
	case has(s, "raisin"):
		return "raisin"
	case has(s, "seed"):
		return "seed"
	case has(s, "mix"):
		return "mix"
	case has(s, "malt"), has(s, "abc"):
		return "malt"
	case has(s, "dried") && has(s, "fruit"):
		return "dried fruit"
	}
	return s
}

// MatchesFilter reports whether p belongs on the category page for slug. An
// empty slug matches everything.
func MatchesFilter(slug string, p domain.Product) bool {
	kw := filterKeyword(slug)
	if kw == "" {
		return true
	}
	cat := strings.TrimSpace(strings.NewReplacer("-", " ", "/", " ").Replace(strings.ToLower(p.Category)))
	name := strings.ToLower(p.Name)

	switch kw {
	case "malt":
		return strings.Contains(cat, "malt") || strings.Contains(cat, "abc") || strings.Contains(name, "malt")
	case "mix":
		return strings.Contains(cat, "mix") || strings.Contains(cat, "daily") || strings.Contains(name, "mix")
	}
	return strings.Contains(cat, kw) || strings.Contains(name, kw)
}
