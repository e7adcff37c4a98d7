package memstore_test

import (
	"context"
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/kodevadam/crucible/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndRetrieveItem(t *testing.T) {
	store := memstore.New()
	item := critique.CritiqueItem{ID: "blk_abc", Title: "Something"}
	require.NoError(t, store.InsertItems([]critique.CritiqueItem{item}))

	got, ok := store.GetItem("blk_abc")
	require.True(t, ok)
	assert.Equal(t, "Something", got.Title)
}

func TestInsertItemsIsIdempotentByID(t *testing.T) {
	store := memstore.New()
	item := critique.CritiqueItem{ID: "blk_abc", Title: "First"}
	require.NoError(t, store.InsertItems([]critique.CritiqueItem{item}))
	require.NoError(t, store.InsertItems([]critique.CritiqueItem{{ID: "blk_abc", Title: "Second"}}))

	got, ok := store.GetItem("blk_abc")
	require.True(t, ok)
	assert.Equal(t, "First", got.Title, "re-minting the same content-addressed ID must not overwrite")
}

func TestAllItemsSortedByID(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.InsertItems([]critique.CritiqueItem{
		{ID: "blk_z"}, {ID: "blk_a"}, {ID: "blk_m"},
	}))
	all := store.AllItems()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"blk_a", "blk_m", "blk_z"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestClosedItemsOnlyReturnsTerminal(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.InsertItems([]critique.CritiqueItem{
		{ID: "blk_open", NormalizedText: "open concern"},
		{ID: "blk_closed", NormalizedText: "closed concern"},
	}))
	require.NoError(t, store.InsertDispositions([]critique.DispositionRecord{
		{DispositionID: "d1", ItemID: "blk_closed", DecidedBy: critique.DecidedByHost, Decision: critique.DecisionAccepted},
	}))

	closed := store.ClosedItems(map[string][]string{})
	require.Len(t, closed, 1)
	assert.Equal(t, "blk_closed", closed[0].ID)
}

func TestSaveArtifactRejectsDuplicateRound(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	artifact := critique.RoundArtifact{ProposalID: "p1", Round: 1}
	require.NoError(t, store.SaveArtifact(ctx, artifact))

	err := store.SaveArtifact(ctx, artifact)
	assert.Error(t, err)
}

func TestGetArtifactRoundTrip(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	artifact := critique.RoundArtifact{ProposalID: "p1", Round: 2, ConvergenceState: critique.ConvergenceClosed}
	require.NoError(t, store.SaveArtifact(ctx, artifact))

	got, ok := store.GetArtifact(ctx, "p1", 2)
	require.True(t, ok)
	assert.Equal(t, critique.ConvergenceClosed, got.ConvergenceState)

	_, ok = store.GetArtifact(ctx, "p1", 3)
	assert.False(t, ok)
}
