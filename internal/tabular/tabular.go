// Package tabular reads header-first tables (conversion factors, load curves)
// from CSV or XLSX files into memory.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyTable is returned when a file has no header row.
	ErrEmptyTable = errors.New("tabular: empty table")
	// ErrUnknownColumn is returned when a requested column is not in the header.
	ErrUnknownColumn = errors.New("tabular: unknown column")
)

// Table is a header row plus data rows, all cells kept as trimmed strings.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

// Load reads a .csv or .xlsx file. For workbooks the first sheet is used.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		t, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t.Source = path
		return t, nil
	}
}

// ReadCSV parses CSV content with a header row.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRecords(records)
}

func loadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrEmptyTable, path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	t, err := fromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{Header: trimAll(records[0])}
	width := len(t.Header)

	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := trimAll(rec)
		// Spreadsheet rows drop trailing empty cells.
		for len(row) < width {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// ColumnIndex returns the position of a header name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether name is in the header.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Float parses the cell at (row, col).
func (t *Table) Float(row, col int) (float64, error) {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return 0, fmt.Errorf("tabular: cell (%d,%d) out of range", row, col)
	}
	v, err := strconv.ParseFloat(t.Rows[row][col], 64)
	if err != nil {
		return 0, fmt.Errorf("tabular: row %d column %q: %w", row+1, t.Header[col], err)
	}
	return v, nil
}

// FloatColumn parses every value of the named column.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	col, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	values := make([]float64, len(t.Rows))
	for i := range t.Rows {
		v, err := t.Float(i, col)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// IntColumn parses every value of the named column as an integer. Values such
// as "2025.0" written by spreadsheet tools are accepted.
func (t *Table) IntColumn(name string) ([]int, error) {
	floats, err := t.FloatColumn(name)
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(floats))
	for i, f := range floats {
		if f != float64(int(f)) {
			return nil, fmt.Errorf("tabular: column %q row %d: %v is not an integer", name, i+1, f)
		}
		ints[i] = int(f)
	}
	return ints, nil
}

// Matrix returns the table as nested maps keyed by the first column (row key)
// and header name (column key). The first header cell is ignored.
func (t *Table) Matrix() (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(t.Rows))
	for i, row := range t.Rows {
		key := row[0]
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("tabular: duplicate row key %q", key)
		}
		cells := make(map[string]float64, len(t.Header)-1)
		for j := 1; j < len(t.Header); j++ {
			if row[j] == "" {
				continue
			}
			v, err := t.Float(i, j)
			if err != nil {
				return nil, err
			}
			cells[t.Header[j]] = v
		}
		out[key] = cells
	}
	return out, nil
}
