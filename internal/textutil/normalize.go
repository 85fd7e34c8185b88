package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// noiseTokens are stripped before comparison. Order matters: the dotted forms
// must be removed before the bare word so "feat." does not leave a stray dot.
var noiseTokens = []string{"feat.", "ft.", "featuring"}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims, folds diacritics, strips featuring-style noise
// tokens, and collapses internal whitespace. An empty input stays empty.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(diacriticFolder, s); err == nil {
		s = folded
	}
	for _, noise := range noiseTokens {
		s = strings.ReplaceAll(s, noise, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

// TokenSet splits the normalized form of s into a set of tokens.
func TokenSet(s string) map[string]struct{} {
	fields := strings.Fields(Normalize(s))
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}
