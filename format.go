package tabjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidKeyPath        = errors.New("invalid key path")
	ErrEmptyHeaderRow        = errors.New("empty header row")
	ErrConflictingKeyPath    = errors.New("conflicting key path")
	ErrSourceUnavailable     = errors.New("table source unavailable")
	ErrSinkWrite             = errors.New("sink write failed")
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrUnsupportedReport     = errors.New("unsupported report style")
	ErrUnknownConflictPolicy = errors.New("unknown conflict policy")
)

// Format represents an output format for records.
type Format string

const (
	Lines Format = "lines"
	JSON  Format = "json"
	JSONL Format = "jsonl"
	YAML  Format = "yaml"
)

var formats = []Format{Lines, JSON, JSONL, YAML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format string.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Indented controls JSON and YAML indentation when passed to [WriteIndented].
// Without it, JSON is compact and YAML uses its default indent.
type Indented interface {
	Indent() string
}

// Indent is a fixed [Indented] value, e.g. Indent("  ").
type Indent string

// Indent returns the indentation string.
func (i Indent) Indent() string { return string(i) }

// Write formats records and writes them to w.
func Write(w io.Writer, f Format, records ...*Record) error {
	return WriteIndented(w, f, nil, records...)
}

// WriteIndented is like [Write] with an indentation override. The Lines and
// JSONL formats ignore ind because each record must stay on one line.
func WriteIndented(w io.Writer, f Format, ind Indented, records ...*Record) error {
	switch f {
	case Lines:
		return writeLines(w, records)
	case JSON:
		return writeJSON(w, ind, records)
	case JSONL:
		return writeJSONL(w, records)
	case YAML:
		return writeYAML(w, ind, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal formats records and returns the bytes.
func Marshal(f Format, records ...*Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, records...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
