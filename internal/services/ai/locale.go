package ai

import "strings"

// Locale selects the prompt language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleFrench  Locale = "fr"
	LocalePolish  Locale = "pl"
)

// DefaultLocale is used whenever a requested locale is not supported.
// Unknown locales never error; they fall back here.
const DefaultLocale = LocaleEnglish

// ParseLocale maps a language tag to a supported Locale. Unsupported or
// empty tags fall back to DefaultLocale.
func ParseLocale(s string) Locale {
	tag := strings.ToLower(strings.TrimSpace(s))
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	switch tag {
	case "en", "english":
		return LocaleEnglish
	case "fr", "french":
		return LocaleFrench
	case "pl", "polish":
		return LocalePolish
	default:
		return DefaultLocale
	}
}

// CuisineAny returns the locale's "no preference" cuisine label. A cuisine
// equal to this sentinel is treated as unset and omitted from prompts.
func (l Locale) CuisineAny() string {
	switch l {
	case LocaleFrench:
		return "Toutes"
	case LocalePolish:
		return "Dowolna"
	default:
		return "Any"
	}
}

// DietaryOptions is the selectable set of dietary requirement tags.
var DietaryOptions = []string{
	"Vegetarian", "Vegan", "Gluten-Free", "Dairy-Free", "Keto", "Low-Carb", "Nut-Free",
}

// CuisineOptions is the selectable set of cuisine preferences. The first
// entry is the English "no preference" sentinel.
var CuisineOptions = []string{
	"Any", "Italian", "Asian", "Mexican", "Indian", "Mediterranean", "American", "French",
}
