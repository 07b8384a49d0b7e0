// Package spreadsheet reads and writes single-sheet xlsx workbooks as rows of named cells.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyWorkbook is returned when the first sheet has no header row.
var ErrEmptyWorkbook = errors.New("spreadsheet has no header row")

// Row is one data row keyed by header name.
type Row struct {
	// Line is the 1-based sheet line; the header sits on line 1.
	Line  int
	cells map[string]string
}

// Get returns the first non-missing cell among names, matched case-insensitively.
func (r Row) Get(names ...string) string {
	for _, n := range names {
		if v, ok := r.cells[normalizeHeader(n)]; ok {
			return v
		}
	}
	return ""
}

// Table is a decoded sheet.
type Table struct {
	Headers []string
	Rows    []Row
	index   map[string]bool
}

// HasColumn reports whether any of names is a header, case-insensitively.
func (t *Table) HasColumn(names ...string) bool {
	for _, n := range names {
		if t.index[normalizeHeader(n)] {
			return true
		}
	}
	return false
}

// Encode writes headers and rows into a new workbook with one sheet.
// Cell values may be strings, numbers or nil.
func Encode(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads the first sheet of an xlsx workbook. Cells are returned raw,
// so date cells arrive as Excel serial numbers. Blank rows are skipped; the
// remaining rows keep their sheet line numbers.
func Decode(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyWorkbook
	}

	t := &Table{index: map[string]bool{}}
	keys := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		t.Headers = append(t.Headers, h)
		keys[i] = normalizeHeader(h)
		if h != "" {
			t.index[keys[i]] = true
		}
	}

	for i, cols := range raw[1:] {
		cells := make(map[string]string, len(keys))
		blank := true
		for j, key := range keys {
			if key == "" {
				continue
			}
			v := ""
			if j < len(cols) {
				v = strings.TrimSpace(cols[j])
			}
			if v != "" {
				blank = false
			}
			if _, seen := cells[key]; !seen {
				cells[key] = v
			}
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 2, cells: cells})
	}
	return t, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
