package generator

import (
	"sort"
	"strings"
)

// TopN returns the n rows with the largest relevance score. Ties keep the
// original spreadsheet order (stable sort), and n is clamped to the table
// size. The input table is not modified; this is a pure function of the
// scores already in the table.
func TopN(table *PatentTable, n int) []PatentRow {
	if table == nil || len(table.Rows) == 0 || n <= 0 {
		return nil
	}
	if n > len(table.Rows) {
		n = len(table.Rows)
	}
	indices := make([]int, len(table.Rows))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return table.Rows[indices[a]].Relevance > table.Rows[indices[b]].Relevance
	})
	out := make([]PatentRow, n)
	for i := 0; i < n; i++ {
		out[i] = table.Rows[indices[i]]
	}
	return out
}

// CombineAbstracts joins the selected abstracts with a single space,
// preserving selection order, as input for the synthesis prompt.
func CombineAbstracts(rows []PatentRow) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Abstract != "" {
			parts = append(parts, row.Abstract)
		}
	}
	return strings.Join(parts, " ")
}
