package tabjson

import (
	"context"
	"fmt"
	"io"
)

// WriterSink writes the records of every valid table to an io.Writer.
// Invalid tables are skipped.
type WriterSink struct {
	w      io.Writer
	format Format
	indent Indented
}

// NewWriterSink returns a sink writing in format f.
func NewWriterSink(w io.Writer, f Format) *WriterSink {
	return &WriterSink{w: w, format: f}
}

// WithIndent sets the indentation used by the JSON and YAML formats.
func (s *WriterSink) WithIndent(ind Indented) *WriterSink {
	s.indent = ind
	return s
}

// WriteResult writes r.
func (s *WriterSink) WriteResult(_ context.Context, r Result) error {
	if !r.Valid {
		return nil
	}
	if s.format == Lines {
		for _, line := range r.Lines {
			if _, err := fmt.Fprintln(s.w, line); err != nil {
				return err
			}
		}
		return nil
	}
	return WriteIndented(s.w, s.format, s.indent, r.Records...)
}
