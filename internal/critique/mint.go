package critique

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// idPrefix is the literal prefix on every minted item ID.
const idPrefix = "blk_"

// MintID computes the content-addressed ID for an item: "blk_" followed by
// the lowercase-hex SHA-256 of "{proposalID}|{role}|{round}|{normalizedText}"
// (literal pipe separators). Deterministic — equal inputs always produce the
// same ID; distinct inputs collide only with cryptographic improbability
// (§4.2, §8 property 1).
func MintID(proposalID string, role Role, round int, normalizedText string) string {
	scope := fmt.Sprintf("%s|%s|%d|%s", proposalID, role, round, normalizedText)
	sum := sha256.Sum256([]byte(scope))
	return idPrefix + hex.EncodeToString(sum[:])
}
