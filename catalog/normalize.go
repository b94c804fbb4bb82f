package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so accented drug names match their
// unaccented spellings (Paracétamol == paracetamol).
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a term and removes diacritics. It is the shared
// canonical form for name indexing, search matching and intent tokens.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Tokenize splits free text into normalized tokens on any non-alphanumeric
// boundary. Empty input yields no tokens.
func Tokenize(s string) []string {
	normalized := Normalize(s)
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// PairKey canonicalizes an unordered drug pair so that interaction lookups
// are symmetric: PairKey(a, b) == PairKey(b, a).
func PairKey(drugA, drugB string) string {
	a, b := Normalize(drugA), Normalize(drugB)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// coverageKey keys coverage records by product and plan tier.
func coverageKey(productID, tier string) string {
	return Normalize(productID) + "|" + Normalize(tier)
}
