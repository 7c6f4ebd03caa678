package taxonomy

import "strings"

const defaultProductImage = "/logo-clean.png"

// ProductImage picks the pouch artwork for a product. current is the image the
// backend sent and is kept only when no rule matches and it is a usable path.
func ProductImage(category, name, displayName, current string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	combined := strings.ToLower(name) + " " + strings.ToLower(displayName)

	if img := pouchImage(cat, combined); img != "" {
		return img
	}
	if strings.HasPrefix(current, "/") || strings.HasPrefix(current, "http") {
		return current
	}
	return defaultProductImage
}

func pouchImage(cat, n string) string {
	in := func(s string, subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case in(cat, "almond") || in(n, "almond"):
		return "/pouch_almond.png"
	case in(cat, "walnut") || in(n, "walnut"):
		return "/pouch_walnut.png"
	case in(cat, "cashew") || in(n, "cashew"):
		return "/pouch_cashew.png"
	case in(cat, "pista") || in(n, "pista"):
		return "/pouch_pista.png"
	case in(cat, "date") || in(n, "date"):
		switch {
		case in(n, "black"):
			return "/pouch_dates_black.png"
		case in(n, "dry", "yellow"):
			return "/pouch_dates_dry.png"
		default:
			return "/pouch_dates.png"
		}
	case in(cat, "fig", "injeer", "anjeer") || in(n, "fig"):
		if in(n, "honey") {
			return "/pouch_fig_honey.png"
		}
		return "/pouch_fig_dry.png"
	case in(cat, "raisin", "kishmish") || in(n, "raisin", "kissmiss"):
		if in(n, "black") {
			return "/pouch_raisins_black.png"
		}
		return "/pouch_raisins.png"
	case in(n, "makhana", "fox nut", "foxnut"):
		return "/pouch_makhana.png"
	case in(n, "pumpkin"):
		return "/pouch_pumpkin_seeds.png"
	case in(n, "sunflower"):
		return "/pouch_sunflower_seeds.png"
	case in(n, "watermelon"):
		return "/pouch_watermelon_seeds.png"
	case in(n, "flax", "flex"):
		return "/pouch_flax_seeds.png"
	case in(n, "chia"):
		return "/pouch_chia_seeds.png"
	case in(n, "sesame", "til"):
		return "/pouch_sesame_seeds.png"
	case in(n, "melon") && in(n, "seed"), in(n, "cucumber"):
		return "/pouch_melon_seeds.png"
	case in(cat, "mix") || in(n, "mix"):
		switch {
		case in(n, "fruit"):
			return "/pouch_dry_fruits_mixed.png"
		case in(n, "nut"):
			return "/pouch_dry_nuts_mixed.png"
		default:
			return "/pouch_mixes.png"
		}
	case in(cat, "abc", "malt") || in(n, "malt"):
		return "/premium_abc_malt.png"
	case in(n, "kiwi"):
		return "/pouch_kiwi.png"
	case in(n, "pineapple"):
		return "/pouch_pineapple.png"
	case in(n, "mango"):
		return "/pouch_mango.png"
	case in(n, "papaya"):
		return "/pouch_papaya.png"
	case in(n, "strawberry"):
		return "/pouch_strawberry.png"
	case in(n, "blueberry"):
		return "/pouch_blueberry.png"
	case in(n, "apricot"):
		return "/pouch_apricot.png"
	}
	return ""
}
