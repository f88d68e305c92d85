package parser

import (
	"encoding/json"
	"strings"
)

// Recipe is one suggested recipe from the model's JSON response. Fields
// mirror the prompt's output contract; optional fields may be empty when
// the model deviates from the ideal shape.
type Recipe struct {
	Name               string   `json:"name"`
	Difficulty         string   `json:"difficulty"`
	Time               string   `json:"time"`
	IngredientsUsed    []string `json:"ingredients_used"`
	MissingIngredients []string `json:"missing_ingredients"`
	Steps              []string `json:"steps"`
	Tip                string   `json:"tip"`
}

// RecipeSet is the structured form of one model response.
type RecipeSet struct {
	Recipes []Recipe `json:"recipes"`
}

// DegradedResult carries the original response when it could not be parsed
// as the JSON contract. The text is still shown to the user as-is.
type DegradedResult struct {
	RawText    string `json:"raw_text"`
	ParseError string `json:"parse_error"`
}

// RecipeResult is a tagged variant: exactly one of Set and Degraded is
// non-nil. A degraded result is a recoverable state, not an error.
type RecipeResult struct {
	Set      *RecipeSet      `json:"set,omitempty"`
	Degraded *DegradedResult `json:"degraded,omitempty"`
}

// IsDegraded reports whether the response fell back to raw text.
func (r RecipeResult) IsDegraded() bool {
	return r.Degraded != nil
}

// ParseRecipeResponse parses a model response against the recipe JSON
// contract. It strips optional code fences, parses the JSON object and
// requires a "recipes" array. Any parse failure degrades to the raw text
// plus the error description; this function never returns an error.
func ParseRecipeResponse(raw string) RecipeResult {
	candidate := extractJSONObject(stripCodeFences(raw))

	var envelope struct {
		Recipes json.RawMessage `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(candidate), &envelope); err != nil {
		return degraded(raw, "invalid JSON: "+err.Error())
	}
	if len(envelope.Recipes) == 0 {
		return degraded(raw, `response JSON has no "recipes" key`)
	}

	var recipes []Recipe
	if err := json.Unmarshal(envelope.Recipes, &recipes); err != nil {
		return degraded(raw, `"recipes" is not an array of recipe objects: `+err.Error())
	}
	if recipes == nil {
		return degraded(raw, `"recipes" is null`)
	}

	return RecipeResult{Set: &RecipeSet{Recipes: recipes}}
}

func degraded(raw, parseErr string) RecipeResult {
	return RecipeResult{Degraded: &DegradedResult{RawText: raw, ParseError: parseErr}}
}

// stripCodeFences removes a wrapping markdown code fence, with or without
// a language tag, leaving the inner text.
func stripCodeFences(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		return strings.TrimSpace(strings.TrimPrefix(text, "```"))
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONObject narrows text to the outermost braces, tolerating prose
// before or after the object.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
