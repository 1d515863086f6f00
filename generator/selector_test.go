package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableWithScores(scores ...float64) *PatentTable {
	t := &PatentTable{}
	for i, s := range scores {
		t.Rows = append(t.Rows, PatentRow{
			Abstract:  string(rune('a' + i)),
			Relevance: s,
		})
	}
	return t
}

func TestTopNSelectsLargest(t *testing.T) {
	table := tableWithScores(10, 90, 40, 75, 5)
	top := TopN(table, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 90.0, top[0].Relevance)
	assert.Equal(t, 75.0, top[1].Relevance)

	// Every selected score is >= every unselected score.
	selected := map[string]struct{}{top[0].Abstract: {}, top[1].Abstract: {}}
	for _, row := range table.Rows {
		if _, ok := selected[row.Abstract]; ok {
			continue
		}
		for _, sel := range top {
			assert.GreaterOrEqual(t, sel.Relevance, row.Relevance)
		}
	}
}

func TestTopNStableOnTies(t *testing.T) {
	table := tableWithScores(50, 50, 50, 50)
	top := TopN(table, 3)
	require.Len(t, top, 3)
	// Ties keep spreadsheet order: a, b, c.
	assert.Equal(t, "a", top[0].Abstract)
	assert.Equal(t, "b", top[1].Abstract)
	assert.Equal(t, "c", top[2].Abstract)
}

func TestTopNClampsToTableSize(t *testing.T) {
	table := tableWithScores(1, 2)
	top := TopN(table, 10)
	assert.Len(t, top, 2)
}

func TestTopNEmptyAndNil(t *testing.T) {
	assert.Nil(t, TopN(nil, 5))
	assert.Nil(t, TopN(&PatentTable{}, 5))
	assert.Nil(t, TopN(tableWithScores(1), 0))
}

func TestTopNDoesNotMutateInput(t *testing.T) {
	table := tableWithScores(1, 3, 2)
	_ = TopN(table, 2)
	assert.Equal(t, 1.0, table.Rows[0].Relevance)
	assert.Equal(t, 3.0, table.Rows[1].Relevance)
	assert.Equal(t, 2.0, table.Rows[2].Relevance)
}

func TestCombineAbstracts(t *testing.T) {
	rows := []PatentRow{
		{Abstract: "biodegradable film"},
		{Abstract: ""},
		{Abstract: "recyclable fiber"},
	}
	assert.Equal(t, "biodegradable film recyclable fiber", CombineAbstracts(rows))
	assert.Equal(t, "", CombineAbstracts(nil))
}
