package enrich

import (
	"fmt"
	"strings"

	"github.com/fridgechef/gusteau/internal/parser"
)

// FormatRecipeText renders a recipe set as the plain-text document used
// for the download artifact and the persisted history text. Missing
// ingredients are flagged with a warning mark, matching the display
// convention the prompts ask the model for.
func FormatRecipeText(set *parser.RecipeSet) string {
	if set == nil || len(set.Recipes) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, recipe := range set.Recipes {
		if i > 0 {
			sb.WriteString("\n")
		}

		name := strings.TrimSpace(recipe.Name)
		if name == "" {
			name = "Recipe"
		}
		fmt.Fprintf(&sb, "%d. **%s**\n", i+1, name)

		if recipe.Difficulty != "" {
			fmt.Fprintf(&sb, "   - Difficulty: %s\n", recipe.Difficulty)
		}
		if recipe.Time != "" {
			fmt.Fprintf(&sb, "   - Time: %s\n", recipe.Time)
		}
		if len(recipe.IngredientsUsed) > 0 {
			fmt.Fprintf(&sb, "   - Ingredients: %s\n", strings.Join(recipe.IngredientsUsed, ", "))
		}
		if len(recipe.MissingIngredients) > 0 {
			marked := make([]string, len(recipe.MissingIngredients))
			for j, m := range recipe.MissingIngredients {
				marked[j] = m + " ⚠️"
			}
			fmt.Fprintf(&sb, "   - Also needed: %s\n", strings.Join(marked, ", "))
		}
		if len(recipe.Steps) > 0 {
			sb.WriteString("   - Steps:\n")
			for j, step := range recipe.Steps {
				fmt.Fprintf(&sb, "     %d. %s\n", j+1, step)
			}
		}
		if recipe.Tip != "" {
			fmt.Fprintf(&sb, "   - Pro tip: %s\n", recipe.Tip)
		}
	}

	return sb.String()
}

// EnsureRecipeEmoji prepends a generated glyph when the model's recipe
// name does not already start with one.
func EnsureRecipeEmoji(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return trimmed
	}
	if trimmed[0] >= 0x80 {
		// already starts with a multi-byte glyph
		return trimmed
	}
	return RecipeEmoji(trimmed) + " " + trimmed
}
