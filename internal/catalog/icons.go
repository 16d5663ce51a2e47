package catalog

// icons keys are site ids or GDD slugs; both spellings appear in requests.
var icons = map[string]string{
	"tomato":        "🍅",
	"tomatoes":      "🍅",
	"pepper":        "🫑",
	"peppers":       "🫑",
	"eggplant":      "🍆",
	"cucumber":      "🥒",
	"zucchini":      "🥒",
	"winter-squash": "🎃",
	"squash":        "🎃",
	"pumpkin":       "🎃",
	"corn-sweet":    "🌽",
	"corn":          "🌽",
	"bean-bush":     "🫘",
	"beans":         "🫘",
	"bean":          "🫘",
	"pea":           "🫛",
	"peas":          "🫛",
	"carrot":        "🥕",
	"carrots":       "🥕",
	"beet":          "🫜",
	"beets":         "🫜",
	"potato":        "🥔",
	"onion":         "🧅",
	"onions":        "🧅",
	"garlic":        "🧄",
	"broccoli":      "🥦",
	"cauliflower":   "🥦",
	"cabbage":       "🥬",
	"lettuce":       "🥬",
	"spinach":       "🍃",
	"kale":          "🥬",
	"radish":        "🌱",
	"turnip":        "🌱",
	"melon":         "🍈",
	"watermelon":    "🍉",
	"strawberry":    "🍓",
	"sunflower":     "🌻",
	"basil":         "🌿",
	"herb":          "🌿",
}
