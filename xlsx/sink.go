package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"github.com/bjaus/tabjson"
)

// DefaultSheet is the output sheet used when none is given.
const DefaultSheet = "JSON"

// Rows of the output column before the JSON lines begin.
const (
	nameRow  = 1
	validRow = 2
	countRow = 3
	firstRow = 4
)

// Sink writes each result into its own column of an output sheet. Nothing
// reaches disk until Commit.
type Sink struct {
	path  string
	sheet string
	file  *excelize.File
	col   int
}

// NewSink opens the workbook at path, or starts a new one if it does not
// exist, and prepares an empty output sheet. An existing sheet of that name
// is cleared.
func NewSink(path, sheet string) (*Sink, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f, err := openOrCreate(path, sheet)
	if err != nil {
		return nil, err
	}
	if err := prepareSheet(f, sheet); err != nil {
		f.Close()
		return nil, err
	}
	return &Sink{path: path, sheet: sheet, file: f}, nil
}

func openOrCreate(path, sheet string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	f = excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func prepareSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		idx, err = f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		f.SetActiveSheet(idx)
		return nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	for range rows {
		if err := f.RemoveRow(sheet, 1); err != nil {
			return fmt.Errorf("clear sheet %q: %w", sheet, err)
		}
	}
	return nil
}

// Sheet returns the output sheet name.
func (s *Sink) Sheet() string { return s.sheet }

// WriteResult fills the next free column with r.
func (s *Sink) WriteResult(ctx context.Context, r tabjson.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.col++
	if err := s.set(nameRow, r.Name); err != nil {
		return err
	}
	if err := s.set(validRow, r.Valid); err != nil {
		return err
	}
	if err := s.set(countRow, r.Rows); err != nil {
		return err
	}
	if !r.Valid {
		return nil
	}
	for i, line := range r.Lines {
		if err := s.set(firstRow+i, line); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) set(row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(s.col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellValue(s.sheet, cell, v)
}

// Commit saves the workbook to its path.
func (s *Sink) Commit(context.Context) error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

// Close releases the workbook.
func (s *Sink) Close() error {
	return s.file.Close()
}
