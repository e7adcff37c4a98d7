package critique

import "sort"

// ComputeActiveSet returns the IDs of items that are (a) not terminal and
// (b) leaves — every child of the item is terminal, or it has no children
// at all (§4.7). Returned in a stable, sorted order so round artifacts are
// reproducible across runs over the same store contents.
func ComputeActiveSet(store ItemStore, dispositions DispositionStore, children childrenMap) []string {
	memo := make(terminalMemo)
	var active []string

	for _, item := range store.AllItems() {
		if isTerminal(item.ID, dispositions, children, memo) {
			continue
		}
		if !isLeaf(item.ID, dispositions, children, memo) {
			continue
		}
		active = append(active, item.ID)
	}

	sort.Strings(active)
	return active
}

// isLeaf reports whether every child of itemID is terminal (true vacuously
// when itemID has no children).
func isLeaf(itemID string, dispositions DispositionStore, children childrenMap, memo terminalMemo) bool {
	for _, kid := range children[itemID] {
		if !isTerminal(kid, dispositions, children, memo) {
			return false
		}
	}
	return true
}

// ComputeConvergenceState reports closed iff no item in activeSet carries
// blocking severity. Minor/important items may remain active in a closed
// round — tracked, but not blocking (§4.7).
func ComputeConvergenceState(activeSet []string, store ItemStore) ConvergenceState {
	for _, id := range activeSet {
		item, ok := store.GetItem(id)
		if !ok {
			continue
		}
		if item.Severity == SeverityBlocking {
			return ConvergenceOpen
		}
	}
	return ConvergenceClosed
}

// ComputePendingFlags lists the IDs whose effective disposition is
// pending_transformation — the open ⚑ gates (§4.7).
func ComputePendingFlags(store ItemStore, dispositions DispositionStore) []string {
	var pending []string
	for _, item := range store.AllItems() {
		eff := EffectiveDisposition(dispositions.DispositionsFor(item.ID))
		if eff != nil && eff.Decision == DecisionPendingTransformation {
			pending = append(pending, item.ID)
		}
	}
	sort.Strings(pending)
	return pending
}

// RoundClosedForSynthesis reports whether a round is ready for the
// synthesis call: convergence closed AND no pending_transformation flags
// remain over blocking items (§4.11).
func RoundClosedForSynthesis(activeSet []string, store ItemStore, dispositions DispositionStore) bool {
	if ComputeConvergenceState(activeSet, store) != ConvergenceClosed {
		return false
	}
	for _, id := range ComputePendingFlags(store, dispositions) {
		item, ok := store.GetItem(id)
		if ok && item.Severity == SeverityBlocking {
			return false
		}
	}
	return true
}
