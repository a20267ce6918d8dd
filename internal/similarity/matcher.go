package similarity

const (
	// DefaultJaccardThreshold accepts a Jaccard score as the match score.
	DefaultJaccardThreshold = 0.7
	// DefaultLevenshteinThreshold accepts an edit similarity as the match score.
	DefaultLevenshteinThreshold = 0.8
)

// Matcher combines exact match, Jaccard and Levenshtein into a single score
// in [0,1]. The caller applies its own decision threshold on top.
type Matcher struct {
	jaccardThreshold     float64
	levenshteinThreshold float64
}

// NewMatcher creates a matcher with the given branch thresholds. Non-positive
// thresholds fall back to the defaults.
func NewMatcher(jaccardThreshold, levenshteinThreshold float64) *Matcher {
	if jaccardThreshold <= 0 {
		jaccardThreshold = DefaultJaccardThreshold
	}

	if levenshteinThreshold <= 0 {
		levenshteinThreshold = DefaultLevenshteinThreshold
	}

	return &Matcher{
		jaccardThreshold:     jaccardThreshold,
		levenshteinThreshold: levenshteinThreshold,
	}
}

// Score returns 1 for texts that normalize to the same string. Otherwise it
// returns the Jaccard score when it clears the Jaccard threshold, then the
// Levenshtein similarity when it clears its threshold, and finally the best
// of the two as a below-threshold diagnostic score.
func (m *Matcher) Score(a, b string) float64 {
	if Normalize(a) == Normalize(b) {
		return 1
	}

	jaccard := Jaccard(a, b)
	if jaccard >= m.jaccardThreshold {
		return jaccard
	}

	lev := Levenshtein(a, b)
	if lev >= m.levenshteinThreshold {
		return lev
	}

	if jaccard > lev {
		return jaccard
	}

	return lev
}
