package tabjson

import (
	"fmt"
	"io"
)

// FormatLines renders records as a JSON array spread over lines, one line per
// element, so each line can fill one spreadsheet cell:
//
//	[
//	{"a":1},
//	{"b":2}
//	]
//
// Every record line but the last ends with a comma. No records yields just
// "[" and "]". A nil record renders as null.
func FormatLines(records []*Record) ([]string, error) {
	lines := make([]string, 0, len(records)+2)
	lines = append(lines, "[")
	for i, rec := range records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		line := string(data)
		if i < len(records)-1 {
			line += ","
		}
		lines = append(lines, line)
	}
	return append(lines, "]"), nil
}

func writeLines(w io.Writer, records []*Record) error {
	lines, err := FormatLines(records)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
