package similarity

import (
	"github.com/agnivade/levenshtein"
)

// Jaccard returns |intersection| / |union| over the qualifying token sets of
// both texts. When neither text yields a qualifying token the union is empty;
// in that case it returns 1 if the normalized strings are equal and 0
// otherwise (two disjoint short-token inputs are not duplicates).
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		if Normalize(a) == Normalize(b) {
			return 1
		}

		return 0
	}

	intersection := 0

	for token := range setA {
		if setB[token] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// Levenshtein returns (maxLen - distance) / maxLen over the normalized
// strings, counted in runes. Two empty strings are identical, similarity 1.
func Levenshtein(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}

	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(na, nb)

	return float64(maxLen-dist) / float64(maxLen)
}

func tokenSet(text string) map[string]bool {
	tokens := Tokenize(text)

	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}

	return set
}
