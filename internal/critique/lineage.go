package critique

import (
	"sort"
	"time"
)

// maxLineageHops bounds chain tracing against malformed or adversarial
// derivation graphs (§4.9 cycle guard).
const maxLineageHops = 1000

// LineageEntry describes one item's position in a lineage chain, as
// rendered for the synthesis prompt (§4.9).
type LineageEntry struct {
	ItemID                  string
	DisplayID               string
	Round                   int
	Role                    Role
	Title                   string
	Decision                Decision
	Rationale               string
	Superseded              bool
	SupersededModelRecords  []SupersededRecord
	DeferredCount           int
	RoundsActive            int
}

// SupersededRecord is a model disposition whose item now has a human/host
// effective disposition, preserved for audit (Amendment 2, §4.9).
type SupersededRecord struct {
	Record DispositionRecord
	By     DecidedBy
	At     time.Time
}

// LineageCard is the synthesis-facing bundle for one active item: its own
// metadata plus, for each of its root IDs, the traced lineage to that root.
type LineageCard struct {
	Item    CritiqueItem
	Lineage map[string][]LineageEntry // keyed by root ID
}

// LineageInput bundles what BuildLineageCards needs beyond the active set.
type LineageInput struct {
	ProposalID   string
	Round        int
	ActiveSet    []string
	Items        ItemStore
	Dispositions DispositionStore
}

// BuildLineageCards produces one card per active item (§4.9). For each of
// an item's root IDs it attempts to trace the unbranched chain from root to
// leaf; if the chain branches, is untraceable, or the cycle guard trips, it
// falls back to the minimum two-entry rule.
func BuildLineageCards(in LineageInput) []LineageCard {
	children := buildChildrenMap(in.Items, nil)
	cards := make([]LineageCard, 0, len(in.ActiveSet))

	for _, id := range in.ActiveSet {
		item, ok := in.Items.GetItem(id)
		if !ok {
			continue
		}
		card := LineageCard{Item: item, Lineage: make(map[string][]LineageEntry)}
		for _, rootID := range item.RootIDs {
			chain := traceChain(rootID, id, in.Items, children)
			entries := make([]LineageEntry, 0, len(chain))
			for _, memberID := range chain {
				entry, ok := buildEntry(memberID, in.Items, in.Dispositions, in.Round)
				if ok {
					entries = append(entries, entry)
				}
			}
			card.Lineage[rootID] = entries
		}
		cards = append(cards, card)
	}
	return cards
}

// traceChain attempts to find the unbranched path of item IDs from rootID
// to leafID along derived_from edges. Falls back to the minimum two-entry
// rule ([root, immediate_parent, leaf], [root, leaf], or [leaf]) whenever
// the chain is unreachable, branches, or the hop cap trips (§4.9).
func traceChain(rootID, leafID string, store ItemStore, children childrenMap) []string {
	if rootID == leafID {
		return []string{leafID}
	}

	leaf, ok := store.GetItem(leafID)
	if !ok {
		return []string{leafID}
	}

	// Walk upward from leaf to root via derived_from, requiring at every
	// step that the current node have exactly one derived_from entry (an
	// "unbranched" chain, §4.9): if a node has several parents, or a parent
	// has more than one child of any kind, the chain is considered branched
	// and we fall back.
	visited := make(map[string]bool)
	var upward []string
	current := leaf
	for hops := 0; hops < maxLineageHops; hops++ {
		upward = append(upward, current.ID)
		if current.ID == rootID {
			return reverseMinimal(upward, rootID, leafID)
		}
		if visited[current.ID] {
			return minimumForm(rootID, leafID, store)
		}
		visited[current.ID] = true

		if len(current.DerivedFrom) != 1 {
			return minimumForm(rootID, leafID, store)
		}
		parentID := current.DerivedFrom[0]
		parent, ok := store.GetItem(parentID)
		if !ok {
			return minimumForm(rootID, leafID, store)
		}
		if hasMultipleChainChildren(parent.ID, children, rootID, leafID, store) {
			return minimumForm(rootID, leafID, store)
		}
		current = parent
	}
	return minimumForm(rootID, leafID, store)
}

// hasMultipleChainChildren reports whether more than one of parentID's
// children sits on a (still being traced) path between rootID and leafID.
// A conservative approximation: more than one distinct child total means
// the chain branches at this node.
func hasMultipleChainChildren(parentID string, children childrenMap, rootID, leafID string, store ItemStore) bool {
	kids := children[parentID]
	if len(kids) <= 1 {
		return false
	}
	return true
}

// reverseMinimal reverses an upward (leaf-to-root) walk into root-to-leaf
// order. Callers have already confirmed the walk is a valid unbranched
// chain ending at rootID.
func reverseMinimal(upward []string, rootID, leafID string) []string {
	chain := make([]string, len(upward))
	for i, id := range upward {
		chain[len(upward)-1-i] = id
	}
	return chain
}

// minimumForm applies §4.9's minimum two-entry rule: [root, immediate
// parent, leaf] deduped in order, or [root, leaf] if no direct parent is
// found, or [leaf] if leaf is its own root.
func minimumForm(rootID, leafID string, store ItemStore) []string {
	if rootID == leafID {
		return []string{leafID}
	}
	leaf, ok := store.GetItem(leafID)
	if ok && len(leaf.DerivedFrom) > 0 {
		for _, parentID := range leaf.DerivedFrom {
			if parentID == rootID {
				return []string{rootID, leafID}
			}
		}
		return dedupInOrder([]string{rootID, leaf.DerivedFrom[0], leafID})
	}
	return []string{rootID, leafID}
}

func dedupInOrder(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// buildEntry assembles the LineageEntry for one chain member, including
// supersession labeling (Amendment 2).
func buildEntry(itemID string, store ItemStore, dispositions DispositionStore, currentRound int) (LineageEntry, bool) {
	item, ok := store.GetItem(itemID)
	if !ok {
		return LineageEntry{}, false
	}

	records := dispositions.DispositionsFor(itemID)
	eff := EffectiveDisposition(records)

	entry := LineageEntry{
		ItemID:       item.ID,
		DisplayID:    DisplayID(item.ID),
		Round:        item.Round,
		Role:         item.Role,
		Title:        item.Title,
		Superseded:   false,
		RoundsActive: maxInt(0, currentRound-item.Round),
	}

	for _, r := range records {
		if r.Decision == DecisionDeferred {
			entry.DeferredCount++
		}
	}

	if eff == nil {
		return entry, true
	}
	entry.Decision = eff.Decision
	entry.Rationale = eff.Rationale

	if eff.DecidedBy == DecidedByHuman || eff.DecidedBy == DecidedByHost {
		for _, r := range records {
			if r.DispositionID == eff.DispositionID {
				continue
			}
			if r.DecidedBy == DecidedByModelA || r.DecidedBy == DecidedByModelB {
				entry.SupersededModelRecords = append(entry.SupersededModelRecords, SupersededRecord{
					Record: r,
					By:     eff.DecidedBy,
					At:     eff.ProposedAt,
				})
			}
		}
		sort.Slice(entry.SupersededModelRecords, func(i, j int) bool {
			return entry.SupersededModelRecords[i].Record.ProposedAt.Before(entry.SupersededModelRecords[j].Record.ProposedAt)
		})
	}

	return entry, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
