package critique

// DefaultSimilarityThreshold is the Jaccard threshold at or above which a new root
// item is flagged as a likely re-raise of a closed item (§4.8).
const DefaultSimilarityThreshold = 0.7

// ComputeSimilarityWarn flags closed items whose 3-gram character-shingle
// Jaccard similarity to normalizedText is >= threshold. Advisory only, and
// only ever run for new root items — derivations never trigger it (§4.5
// step 4, §4.8). Adapted from the teacher's word-level Jaccard matcher
// (internal/spec/similarity.go), shifted to character trigrams per spec.
func ComputeSimilarityWarn(normalizedText string, closedItems []ClosedItem, threshold float64) []string {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	shingles := trigramSet(normalizedText)
	if len(shingles) == 0 {
		return nil
	}

	var warned []string
	for _, closed := range closedItems {
		other := trigramSet(closed.NormalizedText)
		if jaccard(shingles, other) >= threshold {
			warned = append(warned, closed.ID)
		}
	}
	return warned
}

// trigramSet slides a length-3 window one character at a time. Text shorter
// than 3 characters yields an empty set.
func trigramSet(text string) map[string]struct{} {
	runes := []rune(text)
	if len(runes) < 3 {
		return nil
	}
	shingles := make(map[string]struct{}, len(runes)-2)
	for i := 0; i <= len(runes)-3; i++ {
		shingles[string(runes[i:i+3])] = struct{}{}
	}
	return shingles
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
