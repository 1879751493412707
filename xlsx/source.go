// Package xlsx reads tables from and writes conversion results to Excel
// workbooks.
//
// Every worksheet is one table. Its first row is the header row; the rows
// below it are the data rows. Results are written column by column into a
// designated output sheet: table name, validity, row count, then one JSON
// line per cell.
package xlsx

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/bjaus/tabjson"
)

// Options narrows which sheets a [Source] reads.
type Options struct {
	// Sheets lists the sheets to read. Empty means all sheets.
	Sheets []string
	// Skip lists sheets never read, such as the output sheet of an in-place
	// conversion.
	Skip []string
}

// Source reads tables from a workbook on disk. The file is opened on each
// call to Tables.
type Source struct {
	path string
	opts Options
}

// Open returns a source for the workbook at path.
func Open(path string, opts Options) *Source {
	return &Source{path: path, opts: opts}
}

// Tables reads one table per selected sheet, in workbook order.
func (s *Source) Tables(ctx context.Context) ([]tabjson.Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, name := range s.opts.Sheets {
		if !slices.Contains(sheets, name) {
			return nil, fmt.Errorf("workbook %s: sheet %q not found", s.path, name)
		}
	}

	var tables []tabjson.Table
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.wants(sheet) {
			continue
		}
		t, err := ReadSheet(f, sheet)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (s *Source) wants(sheet string) bool {
	if slices.Contains(s.opts.Skip, sheet) {
		return false
	}
	return len(s.opts.Sheets) == 0 || slices.Contains(s.opts.Sheets, sheet)
}

// ReadSheet reads one worksheet as a table. Rows are padded with "" to the
// widest row so the block is rectangular. Numeric cells become float64 and
// boolean cells bool; everything else stays a string.
func ReadSheet(f *excelize.File, sheet string) (tabjson.Table, error) {
	t := tabjson.Table{Name: sheet}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return t, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return t, nil
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	t.Headers = make([]string, width)
	copy(t.Headers, rows[0])

	t.Rows = make([][]any, 0, len(rows)-1)
	for r, raw := range rows[1:] {
		row := make([]any, width)
		for c := 0; c < width; c++ {
			text := ""
			if c < len(raw) {
				text = raw[c]
			}
			// Data starts on sheet row 2; columns are 1-based.
			v, err := cellValue(f, sheet, c+1, r+2, text)
			if err != nil {
				return t, err
			}
			row[c] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func cellValue(f *excelize.File, sheet string, col, row int, text string) (any, error) {
	if text == "" {
		return "", nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("sheet %q cell %s: %w", sheet, cell, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return text == "1" || text == "TRUE" || text == "true", nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return n, nil
		}
	}
	return text, nil
}
