package enrich

import (
	"strings"
	"testing"

	"github.com/fridgechef/gusteau/internal/parser"
)

func TestFormatRecipeText(t *testing.T) {
	set := &parser.RecipeSet{
		Recipes: []parser.Recipe{
			{
				Name:               "🍳 Spinach Feta Omelette",
				Difficulty:         "Easy",
				Time:               "15 minutes",
				IngredientsUsed:    []string{"eggs", "spinach"},
				MissingIngredients: []string{"feta cheese"},
				Steps:              []string{"Whisk the eggs", "Cook and fold"},
				Tip:                "Low heat keeps it tender.",
			},
			{
				Name: "🥗 Greek Salad",
			},
		},
	}

	text := FormatRecipeText(set)

	for _, want := range []string{
		"1. **🍳 Spinach Feta Omelette**",
		"- Difficulty: Easy",
		"- Time: 15 minutes",
		"- Ingredients: eggs, spinach",
		"- Also needed: feta cheese ⚠️",
		"1. Whisk the eggs",
		"2. Cook and fold",
		"- Pro tip: Low heat keeps it tender.",
		"2. **🥗 Greek Salad**",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted text missing %q\n%s", want, text)
		}
	}

	// The sparse second recipe renders only its name.
	if strings.Count(text, "- Difficulty:") != 1 {
		t.Errorf("expected exactly one difficulty line\n%s", text)
	}
}

func TestFormatRecipeTextEmpty(t *testing.T) {
	if got := FormatRecipeText(nil); got != "" {
		t.Errorf("FormatRecipeText(nil) = %q", got)
	}
	if got := FormatRecipeText(&parser.RecipeSet{}); got != "" {
		t.Errorf("FormatRecipeText(empty) = %q", got)
	}
}

func TestEnsureRecipeEmoji(t *testing.T) {
	// Already decorated names pass through.
	if got := EnsureRecipeEmoji("🍳 Omelette"); got != "🍳 Omelette" {
		t.Errorf("EnsureRecipeEmoji() = %q", got)
	}
	// Bare names get a generated prefix.
	if got := EnsureRecipeEmoji("Chicken Curry"); got != "🍗🍛 Chicken Curry" {
		t.Errorf("EnsureRecipeEmoji() = %q", got)
	}
	if got := EnsureRecipeEmoji(""); got != "" {
		t.Errorf("EnsureRecipeEmoji(\"\") = %q", got)
	}
}
