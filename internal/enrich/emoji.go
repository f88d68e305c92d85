// Package enrich decorates parsed results for display: emoji lookup for
// ingredients and recipes, and plain-text rendering for export.
package enrich

import "strings"

type emojiEntry struct {
	keyword string
	glyph   string
}

const (
	defaultIngredientEmoji = "🍽️"
	defaultRecipeEmoji     = "🍽️✨"
)

// ingredientEmojis is scanned in order; the first matching entry wins.
// That makes the ordering itself the tie-break policy, so entries whose
// keyword contains another entry's keyword must come first.
var ingredientEmojis = []emojiEntry{
	// specific varieties before their general substrings
	{"eggplant", "🍆"},
	{"butternut", "🎃"},
	{"acorn", "🎃"},
	{"grapefruit", "🍊"},
	{"donut", "🍩"},
	{"doughnut", "🍩"},

	// proteins
	{"chicken", "🍗"},
	{"turkey", "🦃"},
	{"beef", "🥩"},
	{"steak", "🥩"},
	{"pork", "🥓"},
	{"bacon", "🥓"},
	{"sausage", "🌭"},
	{"ham", "🍖"},
	{"lamb", "🍖"},
	{"egg", "🥚"},
	{"tofu", "🫘"},

	// vegetables
	{"tomato", "🍅"},
	{"potato", "🥔"},
	{"carrot", "🥕"},
	{"broccoli", "🥦"},
	{"cauliflower", "🥦"},
	{"spinach", "🥬"},
	{"lettuce", "🥬"},
	{"cabbage", "🥬"},
	{"kale", "🥬"},
	{"cucumber", "🥒"},
	{"zucchini", "🥒"},
	{"pepper", "🫑"},
	{"onion", "🧅"},
	{"garlic", "🧄"},
	{"corn", "🌽"},
	{"mushroom", "🍄"},
	{"avocado", "🥑"},
	{"peas", "🫛"},
	{"bean", "🫘"},
	{"pumpkin", "🎃"},
	{"squash", "🎃"},

	// fruits
	{"pineapple", "🍍"},
	{"apple", "🍎"},
	{"banana", "🍌"},
	{"orange", "🍊"},
	{"lemon", "🍋"},
	{"lime", "🍋"},
	{"strawberry", "🍓"},
	{"blueberry", "🫐"},
	{"berry", "🫐"},
	{"grape", "🍇"},
	{"watermelon", "🍉"},
	{"melon", "🍈"},
	{"peach", "🍑"},
	{"pear", "🍐"},
	{"cherry", "🍒"},
	{"mango", "🥭"},
	{"kiwi", "🥝"},
	{"coconut", "🥥"},

	// dairy
	{"cheese", "🧀"},
	{"milk", "🥛"},
	{"butter", "🧈"},
	{"yogurt", "🥛"},
	{"cream", "🥛"},

	// grains and carbs
	{"bread", "🍞"},
	{"toast", "🍞"},
	{"bagel", "🥯"},
	{"croissant", "🥐"},
	{"tortilla", "🫓"},
	{"rice", "🍚"},
	{"pasta", "🍝"},
	{"spaghetti", "🍝"},
	{"noodle", "🍜"},
	{"oat", "🥣"},
	{"cereal", "🥣"},
	{"flour", "🌾"},
	{"quinoa", "🌾"},
	{"pancake", "🥞"},

	// condiments and sauces
	{"sauce", "🥫"},
	{"ketchup", "🥫"},
	{"mayonnaise", "🫙"},
	{"mustard", "🫙"},
	{"vinegar", "🫙"},
	{"olive", "🫒"},
	{"oil", "🫒"},
	{"salt", "🧂"},

	// drinks
	{"juice", "🧃"},
	{"coffee", "☕"},
	{"tea", "🍵"},
	{"wine", "🍷"},
	{"beer", "🍺"},
	{"soda", "🥤"},

	// nuts
	{"peanut", "🥜"},
	{"almond", "🌰"},
	{"walnut", "🌰"},
	{"cashew", "🥜"},
	{"pistachio", "🌰"},
	{"nut", "🥜"},

	// sweets
	{"chocolate", "🍫"},
	{"candy", "🍬"},
	{"cookie", "🍪"},
	{"cake", "🍰"},
	{"ice cream", "🍨"},
	{"honey", "🍯"},
	{"sugar", "🍬"},
	{"jam", "🫙"},

	// herbs and spices
	{"basil", "🌿"},
	{"parsley", "🌿"},
	{"cilantro", "🌿"},
	{"coriander", "🌿"},
	{"mint", "🌿"},
	{"rosemary", "🌿"},
	{"thyme", "🌿"},
	{"oregano", "🌿"},
	{"dill", "🌿"},
	{"herb", "🌿"},
	{"ginger", "🫚"},
	{"chili", "🌶️"},

	// seafood
	{"salmon", "🐟"},
	{"tuna", "🐟"},
	{"cod", "🐟"},
	{"sardine", "🐟"},
	{"anchovy", "🐟"},
	{"fish", "🐟"},
	{"shrimp", "🦐"},
	{"prawn", "🦐"},
	{"crab", "🦀"},
	{"lobster", "🦞"},
	{"squid", "🦑"},
	{"octopus", "🐙"},
	{"mussel", "🦪"},
	{"oyster", "🦪"},
	{"clam", "🦪"},
	{"scallop", "🦪"},
}

// Recipe names carry several signals at once, so each signal category is
// scanned separately and the per-category winners combine.
var recipeSignalTables = [][]emojiEntry{
	// protein
	{
		{"eggplant", "🍆"},
		{"chicken", "🍗"},
		{"turkey", "🦃"},
		{"beef", "🥩"},
		{"steak", "🥩"},
		{"pork", "🥓"},
		{"bacon", "🥓"},
		{"lamb", "🍖"},
		{"egg", "🍳"},
		{"tofu", "🫘"},
		{"salmon", "🐟"},
		{"tuna", "🐟"},
		{"fish", "🐟"},
		{"shrimp", "🦐"},
		{"prawn", "🦐"},
	},
	// dish type
	{
		{"soup", "🍲"},
		{"stew", "🍲"},
		{"salad", "🥗"},
		{"pasta", "🍝"},
		{"spaghetti", "🍝"},
		{"noodle", "🍜"},
		{"ramen", "🍜"},
		{"risotto", "🍚"},
		{"rice", "🍚"},
		{"curry", "🍛"},
		{"taco", "🌮"},
		{"burrito", "🌯"},
		{"wrap", "🌯"},
		{"sandwich", "🥪"},
		{"burger", "🍔"},
		{"pizza", "🍕"},
		{"omelette", "🍳"},
		{"omelet", "🍳"},
		{"pancake", "🥞"},
		{"pie", "🥧"},
		{"casserole", "🥘"},
		{"stir-fry", "🥘"},
		{"stir fry", "🥘"},
		{"bowl", "🥣"},
	},
	// flavor
	{
		{"spicy", "🌶️"},
		{"chili", "🌶️"},
		{"sweet", "🍯"},
		{"honey", "🍯"},
		{"lemon", "🍋"},
		{"lime", "🍋"},
		{"garlic", "🧄"},
		{"cheese", "🧀"},
		{"cheesy", "🧀"},
		{"parmesan", "🧀"},
		{"chocolate", "🍫"},
		{"berry", "🫐"},
		{"mushroom", "🍄"},
	},
	// cooking style
	{
		{"grill", "🔥"},
		{"roast", "🔥"},
		{"baked", "🔥"},
		{"bbq", "🔥"},
		{"barbecue", "🔥"},
		{"fried", "🍳"},
		{"steamed", "♨️"},
	},
}

// IngredientEmoji returns a decorating glyph for an ingredient name.
// Matching is a case-insensitive substring scan over the ordered table.
func IngredientEmoji(name string) string {
	lower := strings.ToLower(name)
	for _, e := range ingredientEmojis {
		if strings.Contains(lower, e.keyword) {
			return e.glyph
		}
	}
	return defaultIngredientEmoji
}

// RecipeEmoji returns 1-4 deduplicated glyphs combining the recipe name's
// protein, dish-type, flavor and cooking-style signals, or a two-glyph
// default when nothing matches.
func RecipeEmoji(name string) string {
	lower := strings.ToLower(name)
	seen := make(map[string]bool)
	var glyphs []string

	for _, table := range recipeSignalTables {
		for _, e := range table {
			if !strings.Contains(lower, e.keyword) {
				continue
			}
			if !seen[e.glyph] {
				seen[e.glyph] = true
				glyphs = append(glyphs, e.glyph)
			}
			break
		}
	}

	if len(glyphs) == 0 {
		return defaultRecipeEmoji
	}
	return strings.Join(glyphs, "")
}
