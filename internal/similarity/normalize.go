// Package similarity implements the lexical scoring used for rule-based
// duplicate detection: text normalization, Jaccard token overlap,
// Levenshtein edit similarity and the combined rule matcher.
package similarity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the minimum token length kept for Jaccard comparison.
// Shorter tokens ("on", "st") are mostly noise in report titles.
const minTokenRunes = 3

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// diacriticStripper decomposes characters and drops combining marks, so
// "café" and "cafe" normalize to the same string.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text, replaces runs of non-word characters with a
// single space and collapses whitespace. Idempotent.
func Normalize(text string) string {
	if stripped, _, err := transform.String(diacriticStripper, text); err == nil {
		text = stripped
	}

	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")

	return strings.Join(strings.Fields(text), " ")
}

// Tokenize normalizes text and returns the whitespace tokens with at least
// minTokenRunes runes.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))

	tokens := fields[:0]

	for _, f := range fields {
		if len([]rune(f)) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}

	return tokens
}
