package taxonomy

import (
	"testing"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetails_Known(t *testing.T) {
	assert.Equal(t, "Almonds (Badam)", Details("almonds").FullName)
	assert.Equal(t, "ABC Malt/Drink", Details("malt-drink").FullName)
	assert.Equal(t, "/banner_mixes.png", Details("mix-malt").BannerImage)
}

func TestDetails_Unknown(t *testing.T) {
	d := Details("exotic-nuts")

	assert.Equal(t, "Exotic Nuts", d.FullName)
	assert.Equal(t, "Exotic Nuts", d.BannerTitle)
	assert.Equal(t, "Quality exotic nuts selected for the best taste and nutrition.", d.Description)
	assert.Equal(t, "/hero-banner-wide.png", d.BannerImage)
}

func TestDetails_Empty(t *testing.T) {
	assert.Equal(t, "Products", Details("").FullName)
}

func TestNavOrder(t *testing.T) {
	items := NavOrder([]string{"Malt", "Walnuts", "Combos", "Almonds", "Fig", "almonds"})

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Home", "Almonds", "Walnuts", "Fig", "Malt/Drink"}, names)

	assert.Equal(t, "/", items[0].Path)
	assert.Equal(t, "💪", items[1].Icon)
	assert.Equal(t, "📦", items[3].Icon)
	assert.Equal(t, "/shop/malt-drink", items[4].Path)
	assert.Equal(t, "🥤", items[4].Icon)
}

func TestNavOrder_MergesRenamedDuplicates(t *testing.T) {
	items := NavOrder([]string{"Malt/Drink", "Seeds", "Malt", "malt/drink"})

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Home", "Seeds", "Malt/Drink"}, names)
	assert.Equal(t, "/shop/malt-drink", items[2].Path)
}

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name string
		slug string
		p    domain.Product
		want bool
	}{
		{"empty slug", "", domain.Product{Category: "Cashews"}, true},
		{"plural slug", "almonds", domain.Product{Category: "Almonds", Name: "California"}, true},
		{"other category", "almonds", domain.Product{Category: "Cashews", Name: "W320"}, false},
		{"malt group", "malt-drink", domain.Product{Category: "ABC", Name: "Beet Powder"}, true},
		{"malt by name", "malt", domain.Product{Category: "Drinks", Name: "Ragi Malt"}, true},
		{"mix group", "daily-mixes", domain.Product{Category: "Daily", Name: "Trail"}, true},
		{"name match", "fig", domain.Product{Category: "Dried", Name: "Honey Fig"}, true},
		{"dried fruit", "dried-fruits", domain.Product{Category: "Dried Fruit", Name: "Kiwi"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesFilter(tt.slug, tt.p))
		})
	}
}
