package critique_test

import (
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeSynthesisGapsDetectsUnaddressedBlockingItem is scenario S7: a
// blocking active item with display_id "blk_abc12345" and title "sql
// injection vulnerability", where the synthesis plan contains neither the
// display_id nor the normalized title, must come back as the sole gap.
func TestComputeSynthesisGapsDetectsUnaddressedBlockingItem(t *testing.T) {
	store := newFakeStore()
	id := "blk_abc12345" + pad64("")[:52]
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: id, Severity: critique.SeverityBlocking, Title: "sql injection vulnerability"},
	}))

	plan := critique.SynthesisPlan{
		AcceptedSuggestions: []string{"Use parameterized queries across the handler layer."},
		RejectedSuggestions: []string{"Rewrite the ORM from scratch."},
	}

	gaps := critique.ComputeSynthesisGaps([]string{id}, store, plan)
	require.Len(t, gaps, 1)
	assert.Equal(t, id, gaps[0].ID)
}

func TestComputeSynthesisGapsMatchesByDisplayID(t *testing.T) {
	store := newFakeStore()
	id := "blk_abc12345" + pad64("")[:52]
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: id, Severity: critique.SeverityBlocking, Title: "sql injection vulnerability"},
	}))

	plan := critique.SynthesisPlan{
		AcceptedSuggestions: []string{"Fixed in item BLK_ABC12345 by switching to prepared statements."},
	}

	gaps := critique.ComputeSynthesisGaps([]string{id}, store, plan)
	assert.Empty(t, gaps)
}

func TestComputeSynthesisGapsMatchesByNormalizedTitle(t *testing.T) {
	store := newFakeStore()
	id := "blk_" + pad64("title-match")
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: id, Severity: critique.SeverityBlocking, Title: "SQL Injection Vulnerability!!"},
	}))

	plan := critique.SynthesisPlan{
		RejectedSuggestions: []string{"We will not fix the sql injection vulnerability this cycle."},
	}

	gaps := critique.ComputeSynthesisGaps([]string{id}, store, plan)
	assert.Empty(t, gaps)
}

func TestComputeSynthesisGapsIgnoresNonBlockingItems(t *testing.T) {
	store := newFakeStore()
	id := "blk_" + pad64("minor")
	require.NoError(t, store.putItems([]critique.CritiqueItem{
		{ID: id, Severity: critique.SeverityMinor, Title: "minor style nit"},
	}))

	gaps := critique.ComputeSynthesisGaps([]string{id}, store, critique.SynthesisPlan{})
	assert.Empty(t, gaps)
}
