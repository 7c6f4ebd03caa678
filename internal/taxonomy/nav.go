package taxonomy

import (
	"sort"
	"strings"
)

// NavItem is one entry of the storefront header menu.
type NavItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Icon string `json:"icon"`
}

var navOrder = []string{
	"Almonds", "Cashews", "Pistachios", "Walnuts", "Dates", "Fig", "Raisins",
	"Seeds", "Berries", "Dried Fruits", "Mixes", "Daily Mixes", "Malt", "Malt/Drink",
}

var navIcons = map[string]string{
	"Dry Fruits": "🌟",
	"Walnuts":    "🌟",
	"Dry Nuts":   "💪",
	"Almonds":    "💪",
	"Cashews":    "🥥",
	"Cashew":     "🥥",
	"Dates":      "🌴",
	"Combos":     "🏷️",
	"Seeds":      "🌱",
	"Berries":    "🍇",
	"Mixes":      "🥥",
	"Malt":       "🥤",
	"Malt/Drink": "🥤",
	"Pistachios": "🟢",
	"Pistachio":  "🟢",
}

var navRenames = map[string]string{
	"Malt": "Malt/Drink",
}

// NavOrder builds the header menu from backend category names. Names outside
// the curated list are left out; Home is always first. Names that display the
// same after renaming appear once, at the earlier rank.
func NavOrder(names []string) []NavItem {
	type ranked struct {
		display string
		rank    int
	}
	var picked []ranked
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		rank := navRank(name)
		if rank < 0 {
			continue
		}
		display := navOrder[rank]
		if renamed, ok := navRenames[display]; ok {
			display = renamed
		}
		picked = append(picked, ranked{display: display, rank: rank})
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].rank < picked[j].rank })

	items := make([]NavItem, 0, len(picked)+1)
	items = append(items, NavItem{Name: "Home", Path: "/", Icon: "🏠"})
	seen := make(map[string]bool)
	for _, p := range picked {
		if seen[p.display] {
			continue
		}
		seen[p.display] = true
		items = append(items, NavItem{
			Name: p.display,
			Path: "/shop/" + Slug(p.display),
			Icon: navIcon(p.display),
		})
	}
	return items
}

func navRank(name string) int {
	for i, n := range navOrder {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

func navIcon(name string) string {
	if icon, ok := navIcons[name]; ok {
		return icon
	}
	if base, _, found := strings.Cut(name, "/"); found {
		if icon, ok := navIcons[base]; ok {
			return icon
		}
	}
	return fallback.Icon
}
