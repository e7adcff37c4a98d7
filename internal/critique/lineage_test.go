package critique_test

import (
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLineageCardsUnbranchedChain(t *testing.T) {
	store := newFakeStore()
	root := "blk_" + pad64("root")
	mid := "blk_" + pad64("mid")
	leaf := "blk_" + pad64("leaf")

	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: root, Round: 1, Title: "Root concern", RootIDs: []string{root}},
		{ID: mid, Round: 2, Title: "Mid concern", RootIDs: []string{root}, DerivedFrom: []string{root}},
		{ID: leaf, Round: 3, Title: "Leaf concern", RootIDs: []string{root}, DerivedFrom: []string{mid}},
	}))

	cards := critique.BuildLineageCards(critique.LineageInput{
		ProposalID: "p1", Round: 3, ActiveSet: []string{leaf}, Items: store, Dispositions: store,
	})
	require.Len(t, cards, 1)
	chain := cards[0].Lineage[root]
	require.Len(t, chain, 3)
	assert.Equal(t, root, chain[0].ItemID)
	assert.Equal(t, mid, chain[1].ItemID)
	assert.Equal(t, leaf, chain[2].ItemID)
}

func TestBuildLineageCardsFallsBackOnBranch(t *testing.T) {
	store := newFakeStore()
	root := "blk_" + pad64("root2")
	siblingA := "blk_" + pad64("siblingA")
	siblingB := "blk_" + pad64("siblingB")

	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: root, Round: 1, Title: "Root concern", RootIDs: []string{root}},
		{ID: siblingA, Round: 2, Title: "Sibling A", RootIDs: []string{root}, DerivedFrom: []string{root}},
		{ID: siblingB, Round: 2, Title: "Sibling B", RootIDs: []string{root}, DerivedFrom: []string{root}},
	}))

	cards := critique.BuildLineageCards(critique.LineageInput{
		ProposalID: "p1", Round: 2, ActiveSet: []string{siblingA}, Items: store, Dispositions: store,
	})
	require.Len(t, cards, 1)
	chain := cards[0].Lineage[root]
	// root has two children (siblingA and siblingB), so tracing falls back
	// to the minimum two-entry rule rather than claiming an unbranched path.
	assert.Equal(t, []string{root, siblingA}, idsOf(chain))
}

func TestBuildLineageCardsSelfRootedLeaf(t *testing.T) {
	store := newFakeStore()
	root := "blk_" + pad64("lonely")
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: root, Round: 1, Title: "Standalone concern", RootIDs: []string{root}},
	}))

	cards := critique.BuildLineageCards(critique.LineageInput{
		ProposalID: "p1", Round: 1, ActiveSet: []string{root}, Items: store, Dispositions: store,
	})
	require.Len(t, cards, 1)
	assert.Equal(t, []string{root}, idsOf(cards[0].Lineage[root]))
}

func idsOf(entries []critique.LineageEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ItemID
	}
	return out
}
