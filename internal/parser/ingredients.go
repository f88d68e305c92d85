// Package parser turns raw model output into structured data: ingredient
// lists from vision responses and recipe sets from JSON responses.
package parser

import "strings"

// headerKeywords are first words that mark a line as a section header or
// model preamble rather than an ingredient, across supported prompt
// languages. Compared lowercased after trimming list punctuation.
var headerKeywords = stringSet(
	"ingredients", "categories",
	"ingrédients", "catégories",
	"składniki", "kategorie",
	"here", "here's", "based", "sure", "okay", "note",
	"i", "i'm", "analyzing", "looking", "this", "these",
)

// noneSentinels are "nothing found" phrases the model emits for empty
// categories. Matched exactly, case-insensitively, after trimming.
var noneSentinels = stringSet(
	"none", "(none)", "none visible", "nothing", "nothing visible", "n/a",
	"aucun", "aucune", "aucun visible",
	"brak", "brak widocznych", "żadne",
)

func stringSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

// ParseIngredientList extracts individual ingredients from a raw vision
// response. Section headers and preamble lines are skipped, list markers
// are stripped, category lines ("Proteins: chicken, eggs") are split on
// commas, empty-category sentinels are dropped, and duplicates collapse
// case-insensitively with first-seen casing and order preserved.
func ParseIngredientList(text string) []string {
	seen := make(map[string]bool)
	var items []string

	add := func(raw string) {
		item := strings.TrimSpace(raw)
		if item == "" {
			return
		}
		key := strings.ToLower(item)
		if noneSentinels[key] {
			return
		}
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, item)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeaderLine(line) {
			continue
		}

		item := strings.TrimSpace(strings.TrimLeft(line, "-*•– \t"))
		if item == "" {
			continue
		}

		// A short label before a colon means the rest of the line is a
		// comma-separated category listing, not a single ingredient.
		if label, rest, ok := strings.Cut(item, ":"); ok {
			if len(strings.Fields(label)) <= 3 {
				for _, part := range strings.Split(rest, ",") {
					add(part)
				}
				continue
			}
		}

		add(item)
	}

	return items
}

// MergeIngredientLists parses the combined responses of several images as
// one document, so the output is identical however many sources fed it.
func MergeIngredientLists(texts ...string) []string {
	return ParseIngredientList(strings.Join(texts, "\n\n"))
}

func isHeaderLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	first := strings.ToLower(strings.Trim(fields[0], ":#*"))
	if headerKeywords[first] {
		return true
	}
	// A short line ending in a colon is a section label with nothing after it.
	if strings.HasSuffix(line, ":") && len(fields) <= 3 {
		return true
	}
	return false
}
