package tabjson

import (
	"fmt"
	"regexp"
	"strings"
)

// keyPathPattern matches one or more word segments joined by single dots.
var keyPathPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// HeaderError reports a header cell that is not a usable key path.
type HeaderError struct {
	Column int // zero-based column index
	Header string
	Err    error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("column %d: %v: %q", e.Column, e.Err, e.Header)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// IsValidKeyPath reports whether s is a dot-delimited key path such as
// "address.city". Every segment must be non-empty and contain only ASCII
// letters, digits, and underscores.
func IsValidKeyPath(s string) bool {
	return keyPathPattern.MatchString(s)
}

// IsHeaderRowValid reports whether headers qualify for conversion: every
// non-empty header is a valid key path and at least one header is non-empty.
// Empty headers mark columns to skip.
func IsHeaderRowValid(headers []string) bool {
	return ValidateHeaderRow(headers) == nil
}

// ValidateHeaderRow is like [IsHeaderRowValid] but explains the rejection.
// It returns a *[HeaderError] wrapping [ErrInvalidKeyPath] for the first
// malformed header, or [ErrEmptyHeaderRow] when no header is set.
func ValidateHeaderRow(headers []string) error {
	used := 0
	for i, h := range headers {
		if h == "" {
			continue
		}
		if !IsValidKeyPath(h) {
			return &HeaderError{Column: i, Header: h, Err: ErrInvalidKeyPath}
		}
		used++
	}
	if used == 0 {
		return ErrEmptyHeaderRow
	}
	return nil
}

// SplitKeyPath returns the segments of a valid key path.
func SplitKeyPath(s string) ([]string, error) {
	if !IsValidKeyPath(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeyPath, s)
	}
	return strings.Split(s, "."), nil
}
