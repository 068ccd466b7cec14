package reports

import (
	"affdash-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// below this similarity a suggestion does more harm than good.
const suggestionThreshold = 0.85

// SuggestAccount picks the stored username closest to a mistyped one.
// Comparison runs on normalized names so casing and stray whitespace
// do not count against the match.
func SuggestAccount(input string, known []string) (string, bool) {
	normalized := textutil.NormalizeName(input)

	var best string
	var bestScore float64
	for _, k := range known {
		score := matchr.JaroWinkler(normalized, textutil.NormalizeName(k), true)
		if score > bestScore {
			best = k
			bestScore = score
		}
	}

	if bestScore < suggestionThreshold {
		return "", false
	}
	return best, true
}
