package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Title produces the matching key for an offer title: Unicode-decomposed,
// diacritics stripped, lowercased. Total and idempotent. The key is used
// for deduplication only and is never displayed.
func Title(title string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	stripped, _, err := transform.String(stripMarks, title)
	if err != nil {
		stripped = title
	}

	return strings.ToLower(stripped)
}
