package ai

import (
	"strings"
	"testing"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Locale
	}{
		{"English", "en", LocaleEnglish},
		{"English uppercase", "EN", LocaleEnglish},
		{"English region tag", "en-US", LocaleEnglish},
		{"French", "fr", LocaleFrench},
		{"French region tag", "fr_FR", LocaleFrench},
		{"Polish", "pl", LocalePolish},
		{"Polish long form", "polish", LocalePolish},
		{"Unknown falls back to English", "de", LocaleEnglish},
		{"Empty falls back to English", "", LocaleEnglish},
		{"Garbage falls back to English", "not-a-locale", LocaleEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLocale(tt.input); got != tt.expected {
				t.Errorf("ParseLocale(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildIngredientPrompt(t *testing.T) {
	tests := []struct {
		name     string
		locale   Locale
		contains []string
	}{
		{
			name:   "English",
			locale: LocaleEnglish,
			contains: []string{
				"INGREDIENTS:",
				"CATEGORIES:",
				"Proteins:",
				"cherry tomatoes",
			},
		},
		{
			name:   "French",
			locale: LocaleFrench,
			contains: []string{
				"INGRÉDIENTS:",
				"CATÉGORIES:",
				"Protéines",
			},
		},
		{
			name:   "Polish",
			locale: LocalePolish,
			contains: []string{
				"SKŁADNIKI:",
				"KATEGORIE:",
				"Białka:",
			},
		},
		{
			name:   "Unknown locale falls back to English",
			locale: Locale("de"),
			contains: []string{
				"INGREDIENTS:",
				"CATEGORIES:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildIngredientPrompt(tt.locale)
			if len(prompt) == 0 {
				t.Fatal("BuildIngredientPrompt() returned empty string")
			}
			for _, s := range tt.contains {
				if !strings.Contains(prompt, s) {
					t.Errorf("BuildIngredientPrompt() did not contain expected string: %s", s)
				}
			}
		})
	}
}

func TestBuildRecipePrompt(t *testing.T) {
	tests := []struct {
		name        string
		req         RecipeRequest
		contains    []string
		notContains []string
	}{
		{
			name: "No preferences",
			req: RecipeRequest{
				Ingredients: []string{"eggs", "spinach", "feta cheese"},
				Locale:      LocaleEnglish,
			},
			contains: []string{
				"Based on these available ingredients:",
				"eggs\nspinach\nfeta cheese",
				`"recipes"`,
				`"ingredients_used"`,
				`"missing_ingredients"`,
				`"steps"`,
				`"tip"`,
				"exactly 3 entries",
				"Minimize additional ingredients needed.",
			},
			notContains: []string{
				"Dietary requirements:",
				"Preferred cuisine:",
			},
		},
		{
			name: "Dietary tags and cuisine",
			req: RecipeRequest{
				Ingredients: []string{"tofu", "rice"},
				DietaryTags: []string{"Vegan", "Gluten-Free"},
				Cuisine:     "Italian",
				Locale:      LocaleEnglish,
			},
			contains: []string{
				"Dietary requirements: Vegan, Gluten-Free",
				"Preferred cuisine: Italian",
			},
		},
		{
			name: "Any cuisine is omitted",
			req: RecipeRequest{
				Ingredients: []string{"tofu"},
				Cuisine:     "Any",
				Locale:      LocaleEnglish,
			},
			notContains: []string{"Preferred cuisine:"},
		},
		{
			name: "French sentinel is omitted",
			req: RecipeRequest{
				Ingredients: []string{"oeufs"},
				Cuisine:     "Toutes",
				Locale:      LocaleFrench,
			},
			contains:    []string{"À partir de ces ingrédients disponibles :"},
			notContains: []string{"Cuisine préférée :"},
		},
		{
			name: "Polish keeps the JSON contract in English",
			req: RecipeRequest{
				Ingredients: []string{"jajka"},
				Cuisine:     "Indian",
				Locale:      LocalePolish,
			},
			contains: []string{
				"Na podstawie tych dostępnych składników:",
				"Preferowana kuchnia: Indian",
				`"recipes"`,
				`"difficulty"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildRecipePrompt(tt.req)
			if len(prompt) == 0 {
				t.Fatal("BuildRecipePrompt() returned empty string")
			}
			for _, s := range tt.contains {
				if !strings.Contains(prompt, s) {
					t.Errorf("BuildRecipePrompt() did not contain expected string: %s", s)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(prompt, s) {
					t.Errorf("BuildRecipePrompt() contained unexpected string: %s", s)
				}
			}
		})
	}
}

func TestBuildRecipePromptDeterministic(t *testing.T) {
	req := RecipeRequest{
		Ingredients: []string{"chicken breast", "broccoli"},
		DietaryTags: []string{"Low-Carb"},
		Cuisine:     "Asian",
		Locale:      LocaleEnglish,
	}
	first := BuildRecipePrompt(req)
	second := BuildRecipePrompt(req)
	if first != second {
		t.Error("BuildRecipePrompt() is not deterministic for identical input")
	}
}

func TestCuisineAny(t *testing.T) {
	if LocaleEnglish.CuisineAny() != "Any" {
		t.Errorf("English sentinel = %q", LocaleEnglish.CuisineAny())
	}
	if LocaleFrench.CuisineAny() != "Toutes" {
		t.Errorf("French sentinel = %q", LocaleFrench.CuisineAny())
	}
	if LocalePolish.CuisineAny() != "Dowolna" {
		t.Errorf("Polish sentinel = %q", LocalePolish.CuisineAny())
	}
}
