package critique

// ItemStore is the narrow read port over the canonical item store. The host
// owns the backing storage (in-memory, SQLite, or otherwise); the core never
// mutates what it's handed and requires a read-committed snapshot (§5, §6).
type ItemStore interface {
	// GetItem returns the item with the given ID, or ok=false if absent.
	GetItem(id string) (item CritiqueItem, ok bool)
	// AllItems returns every item in the store. Iteration order need not be
	// stable; callers that need determinism sort by ID or MintedAt.
	AllItems() []CritiqueItem
}

// DispositionStore is the narrow read port over the disposition store,
// ordered by ProposedAt per item (§6).
type DispositionStore interface {
	// DispositionsFor returns every disposition record for itemID, in the
	// order the host's backing store maintains (expected: ProposedAt asc).
	DispositionsFor(itemID string) []DispositionRecord
}

// ClosedItem is the minimal projection of an already-closed item the
// similarity warner needs (§4.8, §6 "closed-items list").
type ClosedItem struct {
	ID             string
	NormalizedText string
}

// ItemAppender is the host callback used to persist newly minted items.
// Called at most once per ProcessCritiqueRound call, and only when that
// call produced zero errors (§4.5).
type ItemAppender func(items []CritiqueItem) error

// DispositionAppender is the host callback used to persist newly recorded
// dispositions, under the same all-or-nothing guarantee as ItemAppender.
type DispositionAppender func(records []DispositionRecord) error

// childrenMap is a host-side index from item ID to the IDs of items that
// list it in their derived_from. The core never stores this on the parent
// item itself, preserving item immutability (Design Note §9): children are
// always a derived, recomputable view.
type childrenMap map[string][]string

// buildChildrenMap indexes derived_from edges across both the canonical
// store and any items newly composed within the current ingestion call.
func buildChildrenMap(store ItemStore, extra []CritiqueItem) childrenMap {
	children := make(childrenMap)
	add := func(it CritiqueItem) {
		for _, parent := range it.DerivedFrom {
			children[parent] = append(children[parent], it.ID)
		}
	}
	for _, it := range store.AllItems() {
		add(it)
	}
	for _, it := range extra {
		add(it)
	}
	return children
}
