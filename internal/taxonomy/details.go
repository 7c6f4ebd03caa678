package taxonomy

import (
	"fmt"
	"strings"
	"unicode"
)

// CategoryDetails is the banner copy shown on a category page.
type CategoryDetails struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	BannerTitle string `json:"banner_title"`
	BannerImage string `json:"banner_image"`
}

const defaultBanner = "/hero-banner-wide.png"

var details = map[string]CategoryDetails{
	KeyWalnuts: {
		FullName:    "Walnuts",
		Description: "Buy Premium Walnuts (Akhrot) Online at Best Price, perfect for all your snacking and cooking needs. Sweet seeds in taste with a tough shell outside, walnuts (Akhrot) are widely-consumed dry fruits known for their brain-boosting properties. They are rich in Omega-3 fatty acids and antioxidants.",
		BannerTitle: "Walnuts",
		BannerImage: "/banner_walnuts.png",
	},
	KeyAlmonds: {
		FullName:    "Almonds (Badam)",
		Description: "Premium Quality Almonds, handpicked for taste and health. Rich in protein, fiber, and vitamin E, our almonds are perfect for a healthy heart and glowing skin.",
		BannerTitle: "Almonds",
		BannerImage: "/banner_almonds.png",
	},
	KeyCashews: {
		FullName:    "Cashews",
		Description: "Creamy and crunchy Cashews, a perfect snack for every occasion. Rich in essential minerals, these cashews are great for energy and bone health.",
		BannerTitle: "Cashews",
		BannerImage: "/banner_cashews.png",
	},
	KeyPistachios: {
		FullName:    "Pistachios",
		Description: "Roasted and salted Pistachios, a delightful treat for your taste buds. Packed with protein and healthy fats, these pistachios are a guilt-free snack.",
		BannerTitle: "Pistachios",
		BannerImage: "/banner_pistachios.png",
	},
	KeyDates: {
		FullName:    "Premium Dates",
		Description: "Natural energy boosters, our Dates are soft, sweet, and full of fiber. Perfect for a quick snack or a healthy dessert.",
		BannerTitle: "Dates",
		BannerImage: "/banner_dates.png",
	},
	KeyMixes: {
		FullName:    "Daily Mix",
		Description: "A perfect blend of nuts and berries for your daily nutrition. Convenient, healthy, and delicious.",
		BannerTitle: "Daily Mix",
		BannerImage: "/banner_mixes.png",
	},
	KeyMalt: {
		FullName:    "ABC Malt/Drink",
		Description: "Pure Apple, Beetroot, and Carrot dry powder. A powerful health drink mix for vitality and immunity.",
		BannerTitle: "ABC Malt",
		BannerImage: "/banner_abc_malt.png",
	},
	KeyFigs: {
		FullName:    "Premium Figs",
		Description: "Naturally sweet and nutritious dried figs, perfect for healthy snacking anytime.",
		BannerTitle: "Figs",
		BannerImage: "/banner_figs.png",
	},
	KeySeeds: {
		FullName:    "Super Seeds",
		Description: "Nutrient-dense seeds packed with protein, fiber, and healthy fats.",
		BannerTitle: "Seeds",
		BannerImage: "/banner_seeds.png",
	},
	KeyRaisins: {
		FullName:    "Premium Raisins",
		Description: "Sweet and juicy raisins, perfect for baking, cooking, or snacking.",
		BannerTitle: "Raisins",
		BannerImage: "/banner_raisins.png",
	},
	KeyDriedFruits: {
		FullName:    "Exotic Dried Fruits",
		Description: "A variety of delicious dried fruits to satisfy your sweet cravings naturally.",
		BannerTitle: "Dried Fruits",
		BannerImage: "/banner_dried_fruits.png",
	},
}

// Details returns the banner copy for a category slug or name. Unknown names
// get generic copy derived from the slug.
func Details(raw string) CategoryDetails {
	if d, ok := details[KeyOf(raw)]; ok {
		return d
	}
	spaced := strings.TrimSpace(strings.ReplaceAll(raw, "-", " "))
	if spaced == "" {
		return CategoryDetails{
			FullName:    fallback.DisplayName,
			Description: "Quality products selected for the best taste and nutrition.",
			BannerTitle: fallback.DisplayName,
			BannerImage: defaultBanner,
		}
	}
	title := titleWords(spaced)
	return CategoryDetails{
		FullName:    title,
		Description: fmt.Sprintf("Quality %s selected for the best taste and nutrition.", spaced),
		BannerTitle: title,
		BannerImage: defaultBanner,
	}
}

// titleWords upper-cases the first letter of every word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
