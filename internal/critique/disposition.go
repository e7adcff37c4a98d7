package critique

// EffectiveDisposition resolves a list of disposition records for one item
// to the single record the system currently believes, by authority rank
// (human > host > model) then recency among records of equal rank (§4.4).
// Returns nil if records is empty. Adding a lower-rank record never changes
// the result — authority monotonicity (§8 property 6); a later record of
// equal rank does replace the current winner.
func EffectiveDisposition(records []DispositionRecord) *DispositionRecord {
	if len(records) == 0 {
		return nil
	}
	best := records[0]
	for _, r := range records[1:] {
		if isMoreAuthoritative(r, best) {
			best = r
		}
	}
	return &best
}

// isMoreAuthoritative reports whether candidate should win over current
// under the authority-then-recency rule.
func isMoreAuthoritative(candidate, current DispositionRecord) bool {
	cRank, curRank := authorityRank[candidate.DecidedBy], authorityRank[current.DecidedBy]
	if cRank != curRank {
		return cRank > curRank
	}
	return candidate.ProposedAt.After(current.ProposedAt)
}

// terminalMemo carries the memoization state for IsTerminal across a single
// active-set computation, so transitive transformed-chains resolve in
// linear rather than exponential time.
type terminalMemo map[string]bool

// IsTerminal reports whether itemID's effective disposition is closed and
// can never reopen: accepted, rejected, or deferred outright; or
// transformed with every child terminal. pending_transformation is never
// terminal — the open ⚑ gate (§4.4, §4.11).
func IsTerminal(itemID string, dispositions DispositionStore, children childrenMap) bool {
	return isTerminal(itemID, dispositions, children, make(terminalMemo))
}

func isTerminal(itemID string, dispositions DispositionStore, children childrenMap, memo terminalMemo) bool {
	if done, ok := memo[itemID]; ok {
		return done
	}
	// Guard against a malformed cycle reaching this far: treat a node
	// re-entered mid-computation as not (yet) terminal, never as a crash.
	memo[itemID] = false

	eff := EffectiveDisposition(dispositions.DispositionsFor(itemID))
	if eff == nil {
		memo[itemID] = false
		return false
	}

	var result bool
	switch eff.Decision {
	case DecisionAccepted, DecisionRejected, DecisionDeferred:
		result = true
	case DecisionTransformed:
		kids := children[itemID]
		if len(kids) == 0 {
			result = false
		} else {
			result = true
			for _, kid := range kids {
				if !isTerminal(kid, dispositions, children, memo) {
					result = false
					break
				}
			}
		}
	case DecisionPendingTransformation:
		result = false
	default:
		result = false
	}

	memo[itemID] = result
	return result
}
