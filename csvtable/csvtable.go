// Package csvtable reads tables from CSV files. Each file is one table named
// after the file, with the first record as its header row.
package csvtable

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bjaus/tabjson"
)

// Source reads one table per CSV file.
type Source struct {
	paths []string
	comma rune
}

// Open returns a source for the given files.
func Open(paths ...string) *Source {
	return &Source{paths: paths, comma: ','}
}

// WithComma sets the field delimiter. Default: comma.
func (s *Source) WithComma(r rune) *Source {
	s.comma = r
	return s
}

// Tables reads every file in order.
func (s *Source) Tables(ctx context.Context) ([]tabjson.Table, error) {
	tables := make([]tabjson.Table, 0, len(s.paths))
	for _, p := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := s.readFile(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (s *Source) readFile(path string) (tabjson.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return tabjson.Table{}, err
	}
	defer f.Close()
	t, err := read(TableName(path), f, s.comma)
	if err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// TableName derives a table name from a file path: the base name without
// its extension.
func TableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadTable reads a comma-separated table from r.
func ReadTable(name string, r io.Reader) (tabjson.Table, error) {
	return read(name, r, ',')
}

func read(name string, r io.Reader, comma rune) (tabjson.Table, error) {
	t := tabjson.Table{Name: name}
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return t, err
	}
	if len(records) == 0 {
		return t, nil
	}

	t.Headers = records[0]
	if len(t.Headers) > 0 {
		// Spreadsheet exports often start with a byte order mark.
		t.Headers[0] = strings.TrimPrefix(t.Headers[0], "\ufeff")
	}
	t.Rows = make([][]any, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		t.Rows[i] = row
	}
	return t, nil
}
