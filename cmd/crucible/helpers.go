package main

import (
	"sort"

	"github.com/kodevadam/crucible/internal/critique"
)

// childrenMap indexes derived_from edges across every item currently in
// store, the same derived (never stored) view the core itself builds
// internally (§9 design note: children are a recomputable index, not
// a field on the parent item).
func childrenMap(store critique.ItemStore) map[string][]string {
	children := make(map[string][]string)
	for _, item := range store.AllItems() {
		for _, parent := range item.DerivedFrom {
			children[parent] = append(children[parent], item.ID)
		}
	}
	return children
}

// closedItemsView projects every terminal item in store into the
// critique.ClosedItem shape the similarity warner consults (§4.8, §6).
func closedItemsView(store critique.ItemStore, dispositions critique.DispositionStore) []critique.ClosedItem {
	children := childrenMap(store)
	var out []critique.ClosedItem
	for _, item := range store.AllItems() {
		if critique.IsTerminal(item.ID, dispositions, children) {
			out = append(out, critique.ClosedItem{ID: item.ID, NormalizedText: item.NormalizedText})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
