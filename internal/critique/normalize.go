package critique

import "strings"

// trailingPunct is the set of trailing punctuation the v1 normalizer strips.
// Internal punctuation is left untouched.
const trailingPunct = ".,;:!?"

// Normalize canonicalizes free text to a stable key for ID minting (v1):
// strip leading/trailing whitespace, collapse internal whitespace runs to a
// single space, fold to lowercase, then strip a trailing run of the
// characters in trailingPunct. The result is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
//
// Go's static typing makes the "non-string input" half of ErrInvalidArgument
// (§4.1, §7) unreachable here; that sentinel is instead raised by
// ProcessCritiqueRound for malformed RoundInput fields (empty proposal ID,
// non-positive round, unrecognized role) ahead of any normalization.
//
// A behavior change here requires a new NormalizationSpecVersion literal —
// never a silent change (§4.1).
func Normalize(text string) string {
	collapsed := collapseWhitespace(strings.TrimSpace(text))
	lower := strings.ToLower(collapsed)
	stripped := strings.TrimRight(lower, trailingPunct)
	// Stripping trailing punctuation can expose a run of whitespace that was
	// collapsed but not trailing until the punctuation was removed (e.g.
	// "a ." -> "a "); trim it again so the result is idempotent.
	return strings.TrimRight(stripped, " \t\n\r\v\f")
}

// collapseWhitespace replaces every run of whitespace with a single space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if isSpace(r) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
