package generator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadOptions selects which column holds the abstracts. An empty column
// falls back to auto-detection against the candidate headers.
type LoadOptions struct {
	AbstractColumn string
}

// LoadPatentTable reads a spreadsheet from disk. The format is chosen by
// extension: .xlsx through excelize, .csv/.tsv through encoding/csv.
func LoadPatentTable(path string, opts LoadOptions) (*PatentTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	table, err := LoadPatentTableFrom(f, filepath.Ext(path), opts)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return nil, err
		}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

// LoadPatentTableFrom reads a spreadsheet from an already-open reader. ext
// decides the codec (".xlsx", ".csv" or ".tsv", case-insensitive).
func LoadPatentTableFrom(r io.Reader, ext string, opts LoadOptions) (*PatentTable, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(ext) {
	case ".xlsx":
		rows, err = readExcelRows(r)
	case ".tsv":
		rows, err = readDelimitedRows(r, '\t')
	case ".csv", "":
		rows, err = readDelimitedRows(r, ',')
	default:
		return nil, &LoadError{Err: fmt.Errorf("unsupported file type %q", ext)}
	}
	if err != nil {
		return nil, err
	}
	return buildTable(rows, opts)
}

func readExcelRows(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer book.Close()
	sheet := book.GetSheetName(0)
	if sheet == "" {
		return nil, &LoadError{Err: errors.New("xlsx has no sheets")}
	}
	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	return rows, nil
}

func readDelimitedRows(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("read csv: %w", err)}
	}
	return rows, nil
}

func buildTable(rows [][]string, opts LoadOptions) (*PatentTable, error) {
	if len(rows) == 0 {
		return nil, &LoadError{Err: errors.New("empty file")}
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	col, name, err := resolveAbstractColumn(header, opts.AbstractColumn)
	if err != nil {
		return nil, err
	}
	table := &PatentTable{
		Rows:           make([]PatentRow, 0, len(rows)-1),
		AbstractColumn: name,
	}
	for _, row := range rows[1:] {
		abstract := ""
		if col < len(row) {
			abstract = cleanCell(row[col])
		}
		// Rows without an abstract stay in the table so row counts match
		// the spreadsheet; scoring skips them later.
		table.Rows = append(table.Rows, PatentRow{Abstract: abstract})
	}
	return table, nil
}

func resolveAbstractColumn(header []string, explicit string) (int, string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		for i, col := range header {
			if strings.EqualFold(col, explicit) {
				return i, header[i], nil
			}
		}
		return -1, "", &SchemaError{Column: explicit, Have: header}
	}
	for _, cand := range DefaultAbstractCandidates() {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i, header[i], nil
			}
		}
	}
	return -1, "", &SchemaError{Column: DefaultAbstractColumn, Have: header}
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\uFEFF")
	return NormalizeText(v)
}
