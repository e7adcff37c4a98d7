package critique_test

import (
	"testing"

	"github.com/kodevadam/crucible/internal/critique"
	"github.com/stretchr/testify/assert"
)

func TestComputeSimilarityWarnFlagsNearDuplicate(t *testing.T) {
	closed := []critique.ClosedItem{
		{ID: "blk_old1", NormalizedText: "sql injection vulnerability in login handler"},
		{ID: "blk_old2", NormalizedText: "completely unrelated concern about retries"},
	}

	warned := critique.ComputeSimilarityWarn("sql injection vulnerability in login handlers", closed, 0.7)
	assert.Contains(t, warned, "blk_old1")
	assert.NotContains(t, warned, "blk_old2")
}

func TestComputeSimilarityWarnEmptyForShortText(t *testing.T) {
	closed := []critique.ClosedItem{{ID: "blk_old1", NormalizedText: "xy"}}
	warned := critique.ComputeSimilarityWarn("ab", closed, 0.7)
	assert.Empty(t, warned)
}

func TestComputeSimilarityWarnDefaultThreshold(t *testing.T) {
	closed := []critique.ClosedItem{{ID: "blk_old1", NormalizedText: "missing input validation on upload endpoint"}}
	warned := critique.ComputeSimilarityWarn("missing input validation on upload endpoint", closed, 0)
	assert.Equal(t, []string{"blk_old1"}, warned)
}
