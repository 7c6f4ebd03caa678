package taxonomy

// Canonical category keys.
const (
	KeyAlmonds     = "almonds"
	KeyCashews     = "cashews"
	KeyPistachios  = "pistachios"
	KeyWalnuts     = "walnuts"
	KeyRaisins     = "raisins"
	KeyFigs        = "figs"
	KeyDates       = "dates"
	KeyBlueberries = "blueberries"
	KeyCranberries = "cranberries"
	KeyBerries     = "berries"
	KeyApricots    = "apricots"
	KeyMixes       = "mixes"
	KeyMalt        = "malt"
	KeySeeds       = "seeds"
	KeySesame      = "sesame"
	KeyDriedFruits = "dried fruits"
)

// Category is a canonical display bucket.
type Category struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Icon        string   `json:"icon"`
	Image       string   `json:"image"`
	Color       string   `json:"color"`
	Aliases     []string `json:"-"`
}

var fallback = Category{
	Key:         "",
	DisplayName: "Products",
	Icon:        "📦",
	Image:       "/walnut.png",
	Color:       "#5d2b1a",
}

var categories = []Category{
	{Key: KeyAlmonds, DisplayName: "Almonds", Icon: "💪", Image: "/almond.png", Color: "#9a7b70",
		Aliases: []string{"almond", "almonds", "badam"}},
	{Key: KeyCashews, DisplayName: "Cashews", Icon: "🥥", Image: "/cashew.png", Color: "#2c7a8b",
		Aliases: []string{"cashew", "cashews"}},
	{Key: KeyPistachios, DisplayName: "Pistachios", Icon: "🟢", Image: "/pista.png", Color: "#7a8b70",
		Aliases: []string{"pistachio", "pistachios", "pista"}},
	{Key: KeyWalnuts, DisplayName: "Walnuts", Icon: "🌟", Image: "/walnut.png", Color: "#8b2c3d",
		Aliases: []string{"walnut", "walnuts", "akhrot"}},
	{Key: KeyRaisins, DisplayName: "Raisins", Icon: "📦", Image: "/raisin.png", Color: "#b88a5d",
		Aliases: []string{"raisin", "raisins", "kishmish"}},
	{Key: KeyFigs, DisplayName: "Figs", Icon: "📦", Image: "/fig.png", Color: "#8b6e60",
		Aliases: []string{"fig", "figs", "anjeer"}},
	{Key: KeyDates, DisplayName: "Dates", Icon: "🌴", Image: "/dates.png", Color: "#7d2a14",
		Aliases: []string{"date", "dates"}},
	{Key: KeyBlueberries, DisplayName: "Blueberries", Icon: "🍇", Image: "/blueberry.png", Color: "#3e3e4a",
		Aliases: []string{"blueberry", "blueberries"}},
	{Key: KeyCranberries, DisplayName: "Cranberries", Icon: "🍇", Image: "/cranberry.png", Color: "#7a1d35",
		Aliases: []string{"cranberry", "cranberries"}},
	{Key: KeyBerries, DisplayName: "Berries", Icon: "🍇", Image: "/blueberry.png", Color: "#3e3e4a",
		Aliases: []string{"berries", "berry"}},
	{Key: KeyApricots, DisplayName: "Apricots", Icon: "📦", Image: "/apricot.png", Color: "#f7941d",
		Aliases: []string{"apricot", "apricots"}},
	{Key: KeyMixes, DisplayName: "Mixes", Icon: "🥥", Image: "/card_daily_mix.png", Color: "#a0522d",
		Aliases: []string{"mix", "mixes", "daily mix", "daily mixes", "combos"}},
	{Key: KeyMalt, DisplayName: "Malt/Drink", Icon: "🥤", Image: "/card_malt.png", Color: "#5d2b1a",
		Aliases: []string{"malt", "malt/drink", "malt drink", "abc malt"}},
	{Key: KeySeeds, DisplayName: "Seeds", Icon: "🌱", Image: "/card_seeds.png", Color: "#8bc34a",
		Aliases: []string{"seed", "seeds"}},
	// "White" is the legacy backend name of the sesame category.
	{Key: KeySesame, DisplayName: "Sesame", Icon: "🌱", Image: "/pouch_sesame_seeds.png", Color: "#f5f5f5",
		Aliases: []string{"sesame", "white"}},
	{Key: KeyDriedFruits, DisplayName: "Dried Fruits", Icon: "🌟", Image: "/card_dried_fruits.png", Color: "#e67e22",
		Aliases: []string{"dried fruit", "dried fruits", "dry fruits"}},
}

// renames maps legacy backend names to the name shown to customers.
var renames = map[string]string{
	"white": "Sesame",
}

// keywordRule matches when the name contains any of anyOf and all of allOf.
type keywordRule struct {
	key   string
	anyOf []string
	allOf []string
}

// keywordRules is evaluated in order and the first match wins. Several
// keywords are substrings of longer names ("fig" in "dried fig", "malt" in
// "abc malt"), so the order must not be changed.
var keywordRules = []keywordRule{
	{key: KeyAlmonds, anyOf: []string{"almond"}},
	{key: KeyCashews, anyOf: []string{"cashew"}},
	{key: KeyWalnuts, anyOf: []string{"walnut"}},
	{key: KeyPistachios, anyOf: []string{"pista"}},
	{key: KeyDates, anyOf: []string{"date"}},
	{key: KeyMixes, anyOf: []string{"mix"}},
	{key: KeyMalt, anyOf: []string{"malt", "abc"}},
	{key: KeyFigs, anyOf: []string{"fig", "anjeer", "injeer"}},
	{key: KeySeeds, anyOf: []string{"seed"}},
	{key: KeyRaisins, anyOf: []string{"raisin", "kishmish"}},
	{key: KeyDriedFruits, allOf: []string{"dried", "fruit"}},
	{key: KeyBlueberries, anyOf: []string{"blueberr"}},
	{key: KeyCranberries, anyOf: []string{"cranberr"}},
	{key: KeyBerries, anyOf: []string{"berr"}},
	{key: KeyApricots, anyOf: []string{"apricot"}},
	{key: KeySesame, anyOf: []string{"sesame"}},
}

var (
	byKey   = make(map[string]Category, len(categories))
	byAlias = make(map[string]string)
)

func init() {
	for _, c := range categories {
		byKey[c.Key] = c
		for _, alias := range c.Aliases {
			byAlias[alias] = c.Key
		}
	}
}

// Categories returns the canonical table in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}
