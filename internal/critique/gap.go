package critique

import (
	"strings"
	"unicode"
)

// minNormalizedTitleLen is the normalized-title length that must be exceeded
// before title matching is attempted, avoiding trivial false matches (§4.10).
const minNormalizedTitleLen = 8

// titleMatchPrefixLen is how many normalized characters of a title are
// compared (§4.10).
const titleMatchPrefixLen = 50

// SynthesisPlan is the structured synthesis artifact the gap detector
// checks blocking active items against (§4.10).
type SynthesisPlan struct {
	AcceptedSuggestions []string
	RejectedSuggestions []string
}

// ComputeSynthesisGaps is the canonical anti-fraud check: for every
// blocking active item, confirm it's addressed either by its display_id or
// by its normalized title appearing (case-insensitively) in the synthesis
// plan's two suggestion arrays. Items that match neither are returned as
// gaps. Matching always runs against canonical stores, never a compressed
// or summarized projection (§4.10).
func ComputeSynthesisGaps(activeSet []string, store ItemStore, plan SynthesisPlan) []CritiqueItem {
	haystack := strings.ToLower(strings.Join(append(append([]string{}, plan.AcceptedSuggestions...), plan.RejectedSuggestions...), "\n"))

	var gaps []CritiqueItem
	for _, id := range activeSet {
		item, ok := store.GetItem(id)
		if !ok || item.Severity != SeverityBlocking {
			continue
		}
		if isAddressed(item, haystack) {
			continue
		}
		gaps = append(gaps, item)
	}
	return gaps
}

func isAddressed(item CritiqueItem, haystack string) bool {
	displayID := strings.ToLower(DisplayID(item.ID))
	if strings.Contains(haystack, displayID) {
		return true
	}

	normalizedTitle := normalizeForTitleMatch(item.Title)
	if len(normalizedTitle) > titleMatchPrefixLen {
		normalizedTitle = normalizedTitle[:titleMatchPrefixLen]
	}
	if len(normalizedTitle) <= minNormalizedTitleLen {
		return false
	}
	return strings.Contains(normalizeForTitleMatch(haystack), normalizedTitle)
}

// normalizeForTitleMatch lowercases and strips everything but letters and
// digits, matching the identical normalization applied to both sides of
// the comparison (§4.10).
func normalizeForTitleMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}
