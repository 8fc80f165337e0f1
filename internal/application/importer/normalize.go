package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader canonicalizes a raw spreadsheet header so variant
// spellings of the same label map to one key: trim, lower-case, collapse
// internal whitespace to single spaces, strip diacritics.
// PRE: none (any string, including empty, is accepted)
// POST: returns a normalized key; blank input yields ""
// INVARIANT: NormalizeHeader(NormalizeHeader(s)) == NormalizeHeader(s)
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	s = strings.Join(strings.Fields(s), " ")
	return stripDiacritics(s)
}

// stripDiacritics removes combining diacritical marks: NFD decomposition
// splits characters like 'é' into 'e' plus a combining accent, which is
// then dropped (unicode.Mn category).
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
