package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ordinalRe = regexp.MustCompile(`^\d+[.)]\s+`)
	boldRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// titleSeparators cut a candidate title off from trailing description text.
var titleSeparators = []string{" - ", " – ", " (", ":"}

// cookingVerbs flag instruction lines masquerading as titles. Matched as
// whole words, case-insensitively.
var cookingVerbs = stringSet(
	"add", "heat", "mix", "stir", "combine", "pour", "preheat", "whisk",
	"simmer", "drain", "transfer", "remove", "serve", "place", "until",
)

// ExtractRecipeTitles pulls up to three recipe names out of free-text
// recipe output that did not honor the JSON contract. It looks for
// ordinal-numbered lines, prefers a bold span as the name, strips emoji
// and trailing description, and drops lines that read like instructions.
// Best effort only; callers must tolerate missed or imperfect names.
func ExtractRecipeTitles(text string) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		name, ok := titleFromLine(line)
		if !ok {
			continue
		}
		titles = append(titles, name)
		if len(titles) == 3 {
			break
		}
	}
	return titles
}

func titleFromLine(line string) (string, bool) {
	marker := ordinalRe.FindString(line)
	if marker == "" {
		return "", false
	}
	candidate := line[len(marker):]

	if m := boldRe.FindStringSubmatch(candidate); m != nil {
		candidate = m[1]
	}

	candidate = stripLeadingNonASCII(candidate)
	for _, sep := range titleSeparators {
		if idx := strings.Index(candidate, sep); idx >= 0 {
			candidate = candidate[:idx]
		}
	}
	candidate = strings.TrimSpace(strings.Trim(candidate, "*"))

	if len(candidate) < 2 || len(candidate) > 80 {
		return "", false
	}
	if containsCookingVerb(candidate) {
		return "", false
	}
	return candidate, true
}

// stripLeadingNonASCII drops leading emoji and other non-ASCII glyphs,
// along with any whitespace around them.
func stripLeadingNonASCII(s string) string {
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if r <= unicode.MaxASCII && !unicode.IsSpace(r) {
			break
		}
		s = s[size:]
	}
	return s
}

func containsCookingVerb(s string) bool {
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Trim(word, ".,;!?")
		if cookingVerbs[word] {
			return true
		}
	}
	return false
}
