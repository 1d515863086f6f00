package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPatentTableCSV(t *testing.T) {
	path := writeTempFile(t, "patents.csv", "番号,要約\n1,生分解性フィルム\n2,\n3,再生繊維\n")

	table, err := LoadPatentTable(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "要約", table.AbstractColumn)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "生分解性フィルム", table.Rows[0].Abstract)
	// Empty abstracts stay in the table but are not eligible for scoring.
	assert.Equal(t, "", table.Rows[1].Abstract)
	assert.Equal(t, 2, table.EligibleCount())
}

func TestLoadPatentTableTSV(t *testing.T) {
	path := writeTempFile(t, "patents.tsv", "id\tabstract\n1\tmetal can\n")

	table, err := LoadPatentTable(path, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "metal can", table.Rows[0].Abstract)
}

func TestLoadPatentTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patents.xlsx")
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetCellValue(sheet, "A1", "要約"))
	require.NoError(t, book.SetCellValue(sheet, "B1", "出願番号"))
	require.NoError(t, book.SetCellValue(sheet, "A2", "生分解性フィルム"))
	require.NoError(t, book.SetCellValue(sheet, "A3", "金属缶"))
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	table, err := LoadPatentTable(path, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "生分解性フィルム", table.Rows[0].Abstract)
	assert.Equal(t, "金属缶", table.Rows[1].Abstract)
}

func TestLoadPatentTableMissingColumn(t *testing.T) {
	path := writeTempFile(t, "patents.csv", "番号,タイトル\n1,何か\n")

	_, err := LoadPatentTable(path, LoadOptions{})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "要約", schemaErr.Column)
	assert.Contains(t, schemaErr.Have, "タイトル")
}

func TestLoadPatentTableExplicitColumn(t *testing.T) {
	path := writeTempFile(t, "patents.csv", "番号,特許概要\n1,abc\n")

	_, err := LoadPatentTable(path, LoadOptions{AbstractColumn: "存在しない列"})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "存在しない列", schemaErr.Column)

	table, err := LoadPatentTable(path, LoadOptions{AbstractColumn: "特許概要"})
	require.NoError(t, err)
	assert.Equal(t, "abc", table.Rows[0].Abstract)
}

func TestLoadPatentTableMissingFile(t *testing.T) {
	_, err := LoadPatentTable(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadPatentTableEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")
	_, err := LoadPatentTable(path, LoadOptions{})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadPatentTableFromReader(t *testing.T) {
	r := strings.NewReader("要約\nrecyclable fiber\n")
	table, err := LoadPatentTableFrom(r, ".csv", LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "recyclable fiber", table.Rows[0].Abstract)
}

func TestLoadPatentTableUnsupportedExt(t *testing.T) {
	_, err := LoadPatentTableFrom(strings.NewReader("x"), ".docx", LoadOptions{})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadPatentTableStripsBOM(t *testing.T) {
	path := writeTempFile(t, "bom.csv", "\uFEFF要約\nfilm\n")
	table, err := LoadPatentTable(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "要約", table.AbstractColumn)
}
