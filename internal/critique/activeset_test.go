package critique_test

import (
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeActiveSetExcludesTerminalItems(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: "blk_" + pad64("open"), Severity: critique.SeverityImportant, RootIDs: []string{"blk_" + pad64("open")}},
		{ID: "blk_" + pad64("closed"), Severity: critique.SeverityMinor, RootIDs: []string{"blk_" + pad64("closed")}},
	}))
	require.NoError(t, store.putDispositions([]critique.DispositionRecord{
		{DispositionID: "d1", ItemID: "blk_" + pad64("closed"), DecidedBy: critique.DecidedByHost, Decision: critique.DecisionAccepted},
	}))

	active := critique.ComputeActiveSet(store, store, map[string][]string{})
	assert.Contains(t, active, "blk_"+pad64("open"))
	assert.NotContains(t, active, "blk_"+pad64("closed"))
}

func TestComputeActiveSetIsSorted(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: "blk_" + pad64("zzz")},
		{ID: "blk_" + pad64("aaa")},
	}))
	active := critique.ComputeActiveSet(store, store, map[string][]string{})
	require.Len(t, active, 2)
	assert.True(t, active[0] < active[1])
}

func TestComputeConvergenceStateOpenOnlyForBlocking(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: "blk_" + pad64("minor"), Severity: critique.SeverityMinor},
	}))
	state := critique.ComputeConvergenceState([]string{"blk_" + pad64("minor")}, store)
	assert.Equal(t, critique.ConvergenceClosed, state)

	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: "blk_" + pad64("block"), Severity: critique.SeverityBlocking},
	}))
	state = critique.ComputeConvergenceState([]string{"blk_" + pad64("minor"), "blk_" + pad64("block")}, store)
	assert.Equal(t, critique.ConvergenceOpen, state)
}

func TestComputePendingFlags(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: "blk_" + pad64("gated")},
		{ID: "blk_" + pad64("clean")},
	}))
	require.NoError(t, store.putDispositions([]critique.DispositionRecord{
		{DispositionID: "d1", ItemID: "blk_" + pad64("gated"), DecidedBy: critique.DecidedByModelA, Decision: critique.DecisionPendingTransformation},
	}))

	pending := critique.ComputePendingFlags(store, store)
	assert.Equal(t, []string{"blk_" + pad64("gated")}, pending)
}

func TestRoundClosedForSynthesisBlockedByPendingGateOnBlockingItem(t *testing.T) {
	store := newFakeStore()
	id := "blk_" + pad64("gated")
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: id, Severity: critique.SeverityBlocking},
	}))
	require.NoError(t, store.putDispositions([]critique.DispositionRecord{
		{DispositionID: "d1", ItemID: id, DecidedBy: critique.DecidedByModelA, Decision: critique.DecisionPendingTransformation},
	}))

	assert.False(t, critique.RoundClosedForSynthesis(nil, store, store))
}

func TestRoundClosedForSynthesisAllowsPendingGateOnMinorItem(t *testing.T) {
	store := newFakeStore()
	id := "blk_" + pad64("gated")
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: id, Severity: critique.SeverityMinor},
	}))
	require.NoError(t, store.putDispositions([]critique.DispositionRecord{
		{DispositionID: "d1", ItemID: id, DecidedBy: critique.DecidedByModelA, Decision: critique.DecisionPendingTransformation},
	}))

	assert.True(t, critique.RoundClosedForSynthesis(nil, store, store))
}
