package critique_test

import (
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/stretchr/testify/assert"
)

func TestValidateDAGNoCycle(t *testing.T) {
	items := []critique.CritiqueItem{
		{ID: "a"},
		{ID: "b", DerivedFrom: []string{"a"}},
		{ID: "c", DerivedFrom: []string{"b"}},
	}
	valid, cycle := critique.ValidateDAG(items)
	assert.True(t, valid)
	assert.Empty(t, cycle)
}

func TestValidateDAGDetectsCycle(t *testing.T) {
	items := []critique.CritiqueItem{
		{ID: "a", DerivedFrom: []string{"c"}},
		{ID: "b", DerivedFrom: []string{"a"}},
		{ID: "c", DerivedFrom: []string{"b"}},
	}
	valid, cycle := critique.ValidateDAG(items)
	assert.False(t, valid)
	assert.NotEmpty(t, cycle)
}

func TestValidateDAGIgnoresCrossProposalReferences(t *testing.T) {
	items := []critique.CritiqueItem{
		{ID: "a", DerivedFrom: []string{"blk_from_other_proposal"}},
	}
	valid, cycle := critique.ValidateDAG(items)
	assert.True(t, valid)
	assert.Empty(t, cycle)
}
